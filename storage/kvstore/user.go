package kvstore

import (
	"context"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

// userRecord re-exposes the password hash which the domain type hides from
// JSON; without it the credential would be lost on save.
type userRecord struct {
	user.User
	PasswordHash []byte `json:"password_hash"`
}

func (repo *userRepository) loadAll() ([]user.User, error) {
	var recs []userRecord
	if err := repo.db.load(usersKey, &recs); err != nil {
		return nil, err
	}
	users := make([]user.User, len(recs))
	for i, rec := range recs {
		rec.User.PasswordHash = rec.PasswordHash
		users[i] = rec.User
	}
	return users, nil
}

func (repo *userRepository) saveAll(users []user.User) error {
	recs := make([]userRecord, len(users))
	for i, usr := range users {
		recs[i] = userRecord{User: usr, PasswordHash: usr.PasswordHash}
	}
	return repo.db.save(usersKey, recs)
}

func isExcludedUser(usr user.User, excluded []user.User) bool {
	for _, e := range excluded {
		if e.ID == usr.ID {
			return true
		}
	}
	return false
}

func (repo *userRepository) CheckUsernameUniqueness(_ context.Context, username string, excludedUsers ...user.User) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	users, err := repo.loadAll()
	if err != nil {
		return err
	}
	for _, usr := range users {
		if usr.Username == username && !isExcludedUser(usr, excludedUsers) {
			return user.ErrUsernameExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	users, err := repo.loadAll()
	if err != nil {
		return user.User{}, err
	}
	usr.ID = newID("user")
	users = append(users, usr)
	if err = repo.saveAll(users); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.loadAll()
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	users, err := repo.loadAll()
	if err != nil {
		return user.User{}, err
	}
	for _, usr := range users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	users, err := repo.loadAll()
	if err != nil {
		return user.User{}, err
	}
	for _, usr := range users {
		if usr.Username == username {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	users, err := repo.loadAll()
	if err != nil {
		return user.User{}, err
	}
	for i := range users {
		if users[i].ID == usr.ID {
			users[i] = usr
			if err = repo.saveAll(users); err != nil {
				return user.User{}, err
			}
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}
