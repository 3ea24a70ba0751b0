package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hamasa/core/user"
)

type userApi struct {
	deps ServerDeps
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{deps: deps}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.GET("/me", api.me)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	data.Code = user.NormalizeCode(data.Code)
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	claims, usr, prof, err := authenticate(ctx.Request().Context(), data.Code, ctx.Request().UserAgent(), api.deps.UserSvc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr, Profile: prof})
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var prof *user.Profile
	if usr.IsLearner() {
		p, err := api.deps.UserSvc.GetProfile(ctx.Request().Context(), usr.ID)
		if err != nil {
			return errors.Wrap(err, "getting profile")
		}
		prof = &p
	}
	return ctx.JSON(http.StatusOK, MeResponse{User: usr, Profile: prof})
}
