package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/user"
)

// The JWT middleware must parse tokens with the same library GenerateToken
// signs them with, and store them where getContextClaims looks.
func Test_tokenRoundTrip(t *testing.T) {
	core.Conf = &core.Config{
		AppName:   "Hamasa",
		SecretKey: "secret",
		Server: core.ServerConfig{
			JWTExpirationDelta:     10 * time.Minute,
			SessionCutoverHour:     15,
			SessionCutoverTZOffset: 5*time.Hour + 30*time.Minute,
		},
	}

	usr := user.User{ID: "u1", Code: "AB12X", FullName: "Hero One", Role: user.RoleLearner}
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	ctx := e.NewContext(req, httptest.NewRecorder())

	h := middleware.JWTWithConfig(newJWTConfig(core.Conf))(func(ctx echo.Context) error { return nil })
	if err = h(ctx); err != nil {
		t.Fatalf("middleware rejected a freshly generated token: %v", err)
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		t.Fatalf("getContextClaims() failed: %v", err)
	}
	if claims.Subject != usr.ID {
		t.Errorf("claims.Subject = %v, want %v", claims.Subject, usr.ID)
	}
	if !claims.IsLearner || claims.IsAdmin {
		t.Errorf("role flags = (learner %v, admin %v), want (true, false)", claims.IsLearner, claims.IsAdmin)
	}
}
