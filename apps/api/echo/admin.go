package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/assignment"
	"github.com/trezcool/hamasa/core/user"
)

type adminApi struct {
	deps ServerDeps
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := adminApi{deps: deps}

	ag := g.Group("/admin", jwt, adminMiddleware())
	ag.POST("/users", api.createUser)
	ag.GET("/users", api.users)
	ag.GET("/learners", api.learners)
	ag.GET("/learners/:id/review", api.reviewOverview)
	ag.PUT("/learners/:id/assignments/:assignmentID/review", api.saveReview)
}

// Handlers

func (api *adminApi) createUser(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	data.Normalize()
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *adminApi) users(ctx echo.Context) error {
	filter := user.QueryFilter{
		Role:   ctx.QueryParam("role"),
		Search: ctx.QueryParam("search"),
	}
	users, err := api.deps.UserSvc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "filtering users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *adminApi) learners(ctx echo.Context) error {
	learners, err := api.deps.UserSvc.QueryLearners(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying learners")
	}
	if learners == nil {
		learners = []user.Learner{}
	}
	return ctx.JSON(http.StatusOK, learners)
}

func (api *adminApi) reviewOverview(ctx echo.Context) error {
	overview, err := api.deps.AssignmentSvc.ReviewOverview(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building review overview")
	}
	return ctx.JSON(http.StatusOK, overview)
}

func (api *adminApi) saveReview(ctx echo.Context) error {
	var data ReviewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReviewRequest")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	edit := assignment.ReviewEdit{Status: data.Status, Feedback: data.Feedback}
	prog, err := api.deps.AssignmentSvc.SaveReview(
		ctx.Request().Context(), claims.Subject, ctx.Param("id"), ctx.Param("assignmentID"), edit,
	)
	switch errors.Cause(err) {
	case nil:
		return ctx.JSON(http.StatusOK, prog)
	case assignment.ErrNoSubmission:
		return core.NewValidationError(assignment.ErrNoSubmission)
	default:
		return errors.Wrap(err, "saving review")
	}
}
