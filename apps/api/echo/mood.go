package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hamasa/core/mood"
)

type moodApi struct {
	deps ServerDeps
}

func registerMoodAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := moodApi{deps: deps}

	mg := g.Group("/mood", jwt)
	mg.GET("/steps", api.steps)
	mg.POST("", api.log, learnerMiddleware())
	mg.GET("", api.history, learnerMiddleware())
}

// Handlers

func (api *moodApi) steps(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, mood.Catalog)
}

func (api *moodApi) log(ctx echo.Context) error {
	var data mood.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	entry, err := api.deps.MoodSvc.Log(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "logging mood entry")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *moodApi) history(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	entries, err := api.deps.MoodSvc.History(ctx.Request().Context(), claims.Subject, bindLimit(ctx))
	if err != nil {
		return errors.Wrap(err, "querying mood entries")
	}
	if entries == nil {
		entries = []mood.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}
