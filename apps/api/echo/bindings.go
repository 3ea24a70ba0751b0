package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/hamasa/core/assignment"
	"github.com/trezcool/hamasa/core/user"
)

type (
	LoginRequest struct {
		Code string `json:"code" validate:"required,accesscode"`
	}

	LoginResponse struct {
		Token   string        `json:"token"`
		User    user.User     `json:"user"`
		Profile *user.Profile `json:"profile"`
	}

	MeResponse struct {
		User    user.User     `json:"user"`
		Profile *user.Profile `json:"profile"`
	}

	// DashboardRequest carries the client's card-expansion memory so the
	// server can reconcile it against fresh unlock state.
	DashboardRequest struct {
		Expanded   []string        `json:"expanded"`
		PrevLocked map[string]bool `json:"prev_locked"`
	}

	SubmitRequest struct {
		Link  string `json:"link" form:"link" validate:"omitempty,url"`
		Notes string `json:"notes" form:"notes"`
	}

	ReviewRequest struct {
		Status   assignment.Status `json:"status" validate:"required,oneof=pending submitted checked"`
		Feedback string            `json:"feedback"`
	}

	DetailResponse struct {
		Detail string `json:"detail"`
	}
)

// bindLimit reads an optional positive "limit" query param, 0 meaning no limit.
func bindLimit(ctx echo.Context) int {
	if raw := ctx.QueryParam("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return 0
}
