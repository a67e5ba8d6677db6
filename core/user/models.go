package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

var AllRoles = []string{RoleAdmin, RoleTeacher}

type User struct {
	ID           string     `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash []byte     `json:"-" db:"password"`
	Role         string     `json:"role" db:"role"`
	Class        *int       `json:"class,omitempty" db:"class"`
	Division     *string    `json:"division,omitempty" db:"division"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"` // UTC
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }

// Session is the in-memory record issued by a successful login.
// The full user record is carried server-side only; the HTTP layer exposes
// it to clients as signed JWT claims without the password hash.
type Session struct {
	ID       string    `json:"id"`
	User     User      `json:"user"`
	IssuedAt time.Time `json:"issued_at"`
}

// Scope restricts list operations to the caller's visibility:
// admins see everything, class teachers see their own class/division only.
type Scope struct {
	Role     string
	Class    *int
	Division *string
}

func ScopeFor(u User) Scope {
	return Scope{Role: u.Role, Class: u.Class, Division: u.Division}
}

// Restricted reports whether the scope limits visibility. A teacher record
// missing class or division falls back to unrestricted per the query
// contract.
func (s Scope) Restricted() bool {
	return s.Role == RoleTeacher && s.Class != nil && s.Division != nil
}

func (s Scope) Matches(class int, division string) bool {
	if !s.Restricted() {
		return true
	}
	return *s.Class == class && *s.Division == division
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username        string  `json:"username" validate:"required,min=4,alphanum_"`
	Password        string  `json:"password" validate:"required,min=4"`
	PasswordConfirm string  `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string  `json:"role" validate:"required,oneof=admin teacher"`
	Class           *int    `json:"class" validate:"omitempty,min=1,max=12"`
	Division        *string `json:"division" validate:"omitempty,division"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	if nu.Role == RoleTeacher && (nu.Class == nil || nu.Division == nil) {
		return core.NewValidationError(nil,
			core.FieldError{Field: "class", Error: "class and division are required for teachers"})
	}
	if nu.Role == RoleAdmin {
		// class/division are meaningless for admins
		nu.Class = nil
		nu.Division = nil
	}
	return svc.CheckUniqueness(nu.Username)
}

// ChangePassword re-verifies the old credential before overwriting it.
type ChangePassword struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=4"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

func (cp ChangePassword) Validate() error { return core.Validate.Struct(cp) }
