package echoapi

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/user"
)

const (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
)

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Code      string `json:"code,omitempty"`
	Name      string `json:"name,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`   // -> ADMIN REVIEW
	IsLearner bool   `json:"is_learner,omitempty"` // -> LEARNER DASHBOARD
}

// GetUserClaims builds the claims for usr. The token never outlives the
// daily session cutover: expiry is the sooner of now+JWTExpirationDelta and
// the next cutover instant, so every session ends at the fixed wall-clock
// reset.
func GetUserClaims(usr user.User) *Claims {
	now := time.Now()
	srvConf := core.Conf.Server

	expiry := now.Add(srvConf.JWTExpirationDelta)
	if cutover := user.NextSessionCutover(now, srvConf.SessionCutoverHour, srvConf.SessionCutoverTZOffset); cutover.Before(expiry) {
		expiry = cutover
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   usr.ID,
			Audience:  "Hamasa",
			ExpiresAt: expiry.Unix(),
			IssuedAt:  now.Unix(),
		},
		Code:      usr.Code,
		Name:      usr.FullName,
		IsAdmin:   usr.IsAdmin(),
		IsLearner: usr.IsLearner(),
	}
}

// authenticate resolves an access code to claims, recording the check-in as
// a side effect. clientNote lands on the login event.
func authenticate(ctx context.Context, code, clientNote string, svc *user.Service) (*Claims, user.User, *user.Profile, error) {
	usr, prof, err := svc.Authenticate(ctx, code, clientNote)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return nil, user.User{}, nil, errAuthenticationFailed
		}
		return nil, user.User{}, nil, errors.Wrap(err, "authenticating")
	}
	return GetUserClaims(usr), usr, prof, nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	ss, err := token.SignedString([]byte(core.Conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc *user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting context claims")
	}

	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
