package user

import (
	"strings"
	"time"

	"github.com/trezcool/hamasa/core"
)

const (
	RoleAdmin   = "admin"
	RoleLearner = "learner"
)

var AllRoles = []string{RoleAdmin, RoleLearner}

type User struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	Email     *string   `json:"email"` // optional contact address for notifications
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsLearner() bool { return u.Role == RoleLearner }

// Profile carries a learner's engagement state. Admins have no profile.
type Profile struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	DisplayName   string     `json:"display_name"`
	AvatarURL     *string    `json:"avatar_url"`
	CoinsBalance  int        `json:"coins_balance"`
	StreakDays    int        `json:"streak_days"`
	BadgesEarned  int        `json:"badges_earned"`
	TotalCheckIns int        `json:"total_check_ins"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LoginEvent is an append-only record of a successful authentication.
// ClientNotes carries whatever context the client reported (user agent).
type LoginEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	LoggedInAt  time.Time `json:"logged_in_at"`
	ClientNotes *string   `json:"client_notes"`
}

// Learner pairs a user with their profile for admin listings.
type Learner struct {
	User    User    `json:"user"`
	Profile Profile `json:"profile"`
}

// NewUser is the payload for provisioning an account (admin CLI / seeds).
type NewUser struct {
	Code          string `json:"code" validate:"required,accesscode"`
	Role          string `json:"role" validate:"required,oneof=admin learner"`
	FullName      string `json:"full_name" validate:"required,alphanum_"`
	Email         string `json:"email" validate:"omitempty,email"`
	DisplayName   string `json:"display_name" validate:"omitempty,alphanum_"`
	StartingCoins int    `json:"starting_coins" validate:"min=0"`
}

func (nu *NewUser) Normalize() {
	nu.Code = NormalizeCode(nu.Code)
	nu.Role = core.CleanString(nu.Role, true)
	nu.FullName = core.CleanString(nu.FullName)
	nu.Email = core.CleanString(nu.Email, true)
	nu.DisplayName = core.CleanString(nu.DisplayName)
	if nu.DisplayName == "" {
		nu.DisplayName = nu.FullName
	}
}

// NormalizeCode uppercases and trims an access code before lookup so that
// "ab12x " and "AB12X" resolve to the same account.
func NormalizeCode(code string) string {
	return strings.ToUpper(core.CleanString(code))
}

type GetFilter struct {
	ID   string
	Code string
}

type QueryFilter struct {
	Role   string
	Search string
}
