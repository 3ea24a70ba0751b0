package tests

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"testing"

	echoapi "github.com/trezcool/hamasa/apps/api/echo"
	"github.com/trezcool/hamasa/core/assignment"
	"github.com/trezcool/hamasa/core/user"
	emailsvc "github.com/trezcool/hamasa/services/email"
	testutil "github.com/trezcool/hamasa/tests"
)

func Test_adminApi_access(t *testing.T) {
	app := setup(t)

	learner, _ := testutil.CreateLearner(t, usrRepo, "AB9XY", "Hero Lol", 65)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, learner), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/admin/learners"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_adminApi_createUser(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "ADM01", "The Admin", user.RoleAdmin)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"code":      "this field is required",
				"role":      "this field is required",
				"full_name": "this field is required",
			}),
		},
		{
			name: "invalid role", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.NewUser{Code: "AB9XY", Role: "boss", FullName: "Hero Lol"}),
			wantData: marchallObj(t, map[string]string{"role": "role must be one of [admin learner]"}),
		},
		{
			name: "invalid name", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.NewUser{Code: "AB9XY", Role: user.RoleLearner, FullName: "Hero <script>"}),
			wantData: marchallObj(t, map[string]string{"full_name": "only alphanumeric characters and underscores are allowed"}),
		},
		{
			name: "learner created", wantCode: http.StatusCreated,
			body: marchallObj(t, user.NewUser{Code: "ab9xy", Role: user.RoleLearner, FullName: "Hero Lol", StartingCoins: 65}),
		},
		{
			name: "duplicate code", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.NewUser{Code: "AB9XY", Role: user.RoleLearner, FullName: "Lmao Awe"}),
			wantData: marchallObj(t, map[string]string{"code": user.ErrCodeExists.Error()}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/admin/users"
		tt.token = adminToken

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if usr.Code != "AB9XY" {
					t.Errorf("failed! Code = %s; want AB9XY", usr.Code)
				}
				prof, err := usrRepo.GetProfile(req.Context(), usr.ID)
				if err != nil {
					t.Fatalf("GetProfile() failed, %v", err)
				}
				if prof.CoinsBalance != 65 {
					t.Errorf("failed! CoinsBalance = %d; want 65", prof.CoinsBalance)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_adminApi_users(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "ADM01", "The Admin", user.RoleAdmin)
	hero, _ := testutil.CreateLearner(t, usrRepo, "AB9XY", "Hero Lol", 65)
	king, _ := testutil.CreateLearner(t, usrRepo, "KG001", "King Awe", 65)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "Get all", path: "/v1/admin/users", wantData: marchallList(t, hero, king, admin)},
		{name: "role=learner", path: "/v1/admin/users?role=learner", wantData: marchallList(t, hero, king)},
		{name: "role (unknown)", path: "/v1/admin/users?role=lol", wantData: marchallList(t)},
		{name: "search by name", path: "/v1/admin/users?search=king", wantData: marchallList(t, king)},
		{name: "search by code", path: "/v1/admin/users?search=ab9", wantData: marchallList(t, hero)},
		{name: "search (unknown)", path: "/v1/admin/users?search=lol", wantData: marchallList(t)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.token = adminToken
		tt.wantCode = http.StatusOK

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_adminApi_learners(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "ADM01", "The Admin", user.RoleAdmin)
	adminToken := getToken(t, admin)

	req, rec := newAuthRequest(http.MethodGet, "/v1/admin/learners", adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)

	usr, prof := testutil.CreateLearner(t, usrRepo, "AB9XY", "Hero Lol", 65)

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/learners", adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallList(t, user.Learner{User: usr, Profile: prof}),
	}, rec)
}

// Test_adminApi_review drives the review flow: a row is only reviewable
// once the learner has touched it, and checking with feedback notifies
// them by email.
func Test_adminApi_review(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "ADM01", "The Admin", user.RoleAdmin)
	adminToken := getToken(t, admin)

	// provision the learner through the API so they get a contact address
	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/users", adminToken,
		marchallObj(t, user.NewUser{Code: "AB9XY", Role: user.RoleLearner, FullName: "Hero Lol", Email: "hero@test.cd", StartingCoins: 65}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("createUser failed! code = %v, body = %s", rec.Code, rec.Body.String())
	}
	var learner user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &learner); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	learnerToken := getToken(t, learner)

	asg := testutil.CreateAssignment(t, asgRepo, assignment.Assignment{
		Slug: "day-1-warmup", DayLabel: "Day 1", Title: "Warmup", DisplayOrder: 1,
	})
	reviewPath := "/v1/admin/learners/" + learner.ID + "/assignments/" + asg.ID + "/review"

	t.Run("untouched row is not reviewable", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/learners/"+learner.ID+"/review", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallList(t, assignment.ReviewRow{Assignment: asg}),
		}, rec)

		req, rec = newAuthRequest(http.MethodPut, reviewPath, adminToken,
			marchallObj(t, echoapi.ReviewRequest{Status: assignment.StatusChecked, Feedback: "Great work"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "nothing to review yet"}),
		}, rec)
	})

	t.Run("invalid status", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, reviewPath, adminToken,
			marchallObj(t, echoapi.ReviewRequest{Status: "lol"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "status must be one of [pending submitted checked]"}),
		}, rec)
	})

	t.Run("check with feedback notifies the learner", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/assignments/"+asg.ID+"/submit", learnerToken,
			marchallObj(t, echoapi.SubmitRequest{Link: "https://github.com/hero/warmup"}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("submit failed! code = %v, body = %s", rec.Code, rec.Body.String())
		}

		emailsvc.SentMessages = nil // reset

		req, rec = newAuthRequest(http.MethodPut, reviewPath, adminToken,
			marchallObj(t, echoapi.ReviewRequest{Status: assignment.StatusChecked, Feedback: "Great work"}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v, body = %s", rec.Code, rec.Body.String())
		}
		var prog assignment.Progress
		if err := json.Unmarshal(rec.Body.Bytes(), &prog); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if prog.Status != assignment.StatusChecked {
			t.Errorf("failed! Status = %s; want %s", prog.Status, assignment.StatusChecked)
		}
		if prog.Feedback == nil || *prog.Feedback != "Great work" {
			t.Errorf("failed! Feedback = %v; want Great work", prog.Feedback)
		}
		if prog.ReviewedBy == nil || *prog.ReviewedBy != admin.ID {
			t.Errorf("failed! ReviewedBy = %v; want %s", prog.ReviewedBy, admin.ID)
		}

		if len(emailsvc.SentMessages) != 1 {
			t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
		}
		msg := emailsvc.SentMessages[0]
		want := mail.Address{Name: learner.FullName, Address: "hero@test.cd"}
		if msg.To[0] != want {
			t.Errorf("failed! To = %v; want %v", msg.To[0], want)
		}
		if !strings.Contains(msg.TextContent, "Great work") {
			t.Error("failed! text content does not contain the feedback")
		}
	})

	t.Run("clean save is a no-op", func(t *testing.T) {
		emailsvc.SentMessages = nil // reset

		req, rec := newAuthRequest(http.MethodPut, reviewPath, adminToken,
			marchallObj(t, echoapi.ReviewRequest{Status: assignment.StatusChecked, Feedback: "Great work"}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v, body = %s", rec.Code, rec.Body.String())
		}
		if len(emailsvc.SentMessages) != 0 {
			t.Errorf("failed! len(SentMessages) = %d; want 0", len(emailsvc.SentMessages))
		}
	})

	t.Run("checked work cannot be resubmitted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/assignments/"+asg.ID+"/submit", learnerToken,
			marchallObj(t, echoapi.SubmitRequest{Link: "https://github.com/hero/warmup-v2"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "assignment has already been checked"}),
		}, rec)
	})
}
