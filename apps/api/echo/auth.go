package echoapi

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core"
	"github.com/kvipin99/SarvodayaFeeManangemenetSystem/core/user"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    []byte(core.Conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
)

// Claims represents the authorization claims transmitted via a JWT.
// The password hash never leaves the server; only identity and scope fields
// are carried.
type Claims struct {
	jwt.StandardClaims
	SessionID string  `json:"sid,omitempty"`
	Username  string  `json:"username,omitempty"`
	Role      string  `json:"role,omitempty"`
	Class     *int    `json:"class,omitempty"`
	Division  *string `json:"division,omitempty"`
}

// Scope derives the role scope applied to list operations.
func (c Claims) Scope() user.Scope {
	return user.Scope{Role: c.Role, Class: c.Class, Division: c.Division}
}

func (c Claims) IsAdmin() bool { return c.Role == user.RoleAdmin }

func GetSessionClaims(sess user.Session) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   sess.User.ID,
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  sess.IssuedAt.Unix(),
		},
		SessionID: sess.ID,
		Username:  sess.User.Username,
		Role:      sess.User.Role,
		Class:     sess.User.Class,
		Division:  sess.User.Division,
	}
}

func authenticate(ctx context.Context, uname, pwd string, svc *user.Service) (*Claims, error) {
	sess, err := svc.Login(ctx, uname, pwd)
	if err != nil {
		if errors.Cause(err) == user.ErrAuthenticationFailed {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "logging in")
	}
	return GetSessionClaims(sess), nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
