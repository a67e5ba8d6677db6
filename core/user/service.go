package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
)

var (
	// errors
	ErrNotFound             = errors.New("user not found")
	ErrUsernameExists       = errors.New("a user with this username already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		// UpdateUser overwrites the stored record; concurrent writers apply
		// last-write-wins.
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (svc *Service) CheckUniqueness(uname string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, exclUsers...); err != nil {
		if err == ErrUsernameExists {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		Username:  nu.Username,
		Role:      nu.Role,
		Class:     nu.Class,
		Division:  nu.Division,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, usr User) (User, error) {
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(uname, true /* lower */))
}

// Login verifies the credentials, stamps LastLogin on the stored record and
// issues a Session. A failed login never mutates stored state and returns
// ErrAuthenticationFailed regardless of whether the user exists.
func (svc *Service) Login(ctx context.Context, username, password string) (Session, error) {
	usr, err := svc.GetByUsername(ctx, username)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Session{}, ErrAuthenticationFailed
		}
		return Session{}, errors.Wrap(err, "finding user by username")
	}
	if err = usr.CheckPassword(password); err != nil {
		return Session{}, ErrAuthenticationFailed
	}

	now := time.Now().UTC()
	usr.LastLogin = &now
	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return Session{}, errors.Wrap(err, "setting lastLogin")
	}

	return Session{ID: uuid.New().String(), User: usr, IssuedAt: now}, nil
}

// ChangePassword verifies the old credential before overwriting it with the
// new one. A mismatch leaves the stored credential unchanged.
func (svc *Service) ChangePassword(ctx context.Context, userID, oldPwd, newPwd string) error {
	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return ErrAuthenticationFailed
		}
		return errors.Wrap(err, "finding user by id")
	}
	if err = usr.CheckPassword(oldPwd); err != nil {
		return ErrAuthenticationFailed
	}
	if err = usr.SetPassword(newPwd); err != nil {
		return err
	}
	if _, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return errors.Wrap(err, "updating password")
	}
	return nil
}
