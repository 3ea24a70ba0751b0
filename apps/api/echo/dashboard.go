package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/assignment"
)

// maxSubmissionFiles caps the number of "files" parts accepted per submit.
const maxSubmissionFiles = 10

type dashboardApi struct {
	deps ServerDeps
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := dashboardApi{deps: deps}

	dg := g.Group("/dashboard", jwt, learnerMiddleware())
	dg.POST("", api.view)

	ag := g.Group("/assignments/:id", jwt, learnerMiddleware())
	ag.POST("/unlock", api.unlock)
	ag.POST("/hints", api.hints)
	ag.POST("/submit", api.submit)
}

// Handlers

// view returns the full dashboard snapshot. It is a POST because the client
// sends along its card-expansion memory to be reconciled; every mutating
// action is followed by another call here, replacing the prior snapshot
// wholesale.
func (api *dashboardApi) view(ctx echo.Context) error {
	var data DashboardRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DashboardRequest")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	view, err := api.deps.AssignmentSvc.Dashboard(ctx.Request().Context(), claims.Subject, data.Expanded, data.PrevLocked)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *dashboardApi) unlock(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	err = api.deps.AssignmentSvc.Unlock(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	return api.purchaseResponse(ctx, err, "unlocking assignment")
}

func (api *dashboardApi) hints(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	err = api.deps.AssignmentSvc.UnlockHints(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	return api.purchaseResponse(ctx, err, "unlocking hints")
}

func (api *dashboardApi) purchaseResponse(ctx echo.Context, err error, msg string) error {
	switch errors.Cause(err) {
	case nil:
		return ctx.JSON(http.StatusOK, DetailResponse{Detail: "purchase applied"})
	case assignment.ErrAlreadyUnlocked:
		// benign repeat, nothing was debited
		return ctx.JSON(http.StatusOK, DetailResponse{Detail: assignment.ErrAlreadyUnlocked.Error()})
	case assignment.ErrInsufficientFunds:
		return core.NewValidationError(assignment.ErrInsufficientFunds)
	case assignment.ErrNotFound:
		return errHttpNotFound
	default:
		return errors.Wrap(err, msg)
	}
}

// submit accepts a multipart form: "link" and "notes" fields plus any
// number of "files" parts.
func (api *dashboardApi) submit(ctx echo.Context) error {
	var data SubmitRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitRequest")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var uploads []assignment.Upload
	if form, err := ctx.MultipartForm(); err == nil {
		if len(form.File["files"]) > maxSubmissionFiles {
			return core.NewValidationError(nil, core.FieldError{
				Field: "files",
				Error: fmt.Sprintf("a submission takes at most %d files", maxSubmissionFiles),
			})
		}
		for _, fh := range form.File["files"] {
			f, err := fh.Open()
			if err != nil {
				return errors.Wrapf(err, "opening upload %s", fh.Filename)
			}
			defer f.Close()
			uploads = append(uploads, assignment.Upload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Content:     f,
			})
		}
	}

	sub := assignment.Submission{Link: data.Link, Notes: data.Notes}
	prog, err := api.deps.AssignmentSvc.Submit(ctx.Request().Context(), claims.Subject, ctx.Param("id"), sub, uploads)
	switch errors.Cause(err) {
	case nil:
		return ctx.JSON(http.StatusOK, prog)
	case assignment.ErrMissingSubmission, assignment.ErrLocked, assignment.ErrAlreadyChecked:
		return core.NewValidationError(errors.Cause(err))
	case assignment.ErrNotFound:
		return errHttpNotFound
	default:
		return errors.Wrap(err, "submitting assignment")
	}
}
