package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/hamasa/core/mood"
	"github.com/trezcool/hamasa/core/user"
	testutil "github.com/trezcool/hamasa/tests"
)

func Test_moodApi_steps(t *testing.T) {
	app := setup(t)

	learner, _ := testutil.CreateLearner(t, usrRepo, "AB9XY", "Hero Lol", 65)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get steps", token: getToken(t, learner), wantCode: http.StatusOK, wantData: marchallObj(t, mood.Catalog)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/mood/steps"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_moodApi_log(t *testing.T) {
	app := setup(t)

	learner, _ := testutil.CreateLearner(t, usrRepo, "AB9XY", "Hero Lol", 65)
	admin := testutil.CreateUser(t, usrRepo, "ADM01", "The Admin", user.RoleAdmin)
	learnerToken := getToken(t, learner)

	type extraTest struct {
		wantEmotion    *string
		wantMotivation *string
		wantEnergy     *string
	}
	sPtr := func(s string) *string { return &s }

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Learner required", token: getToken(t, admin), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "unknown emotion", token: learnerToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, mood.NewEntry{Emotion: "hangry"}),
			wantData: marchallObj(t, map[string]string{"emotion": "emotion must be one of [energized focused neutral stressed reflective]"}),
		},
		{
			name: "all steps answered", token: learnerToken, wantCode: http.StatusCreated,
			body:  marchallObj(t, mood.NewEntry{Emotion: "focused", Motivation: "curious", Energy: "high"}),
			extra: extraTest{wantEmotion: sPtr("focused"), wantMotivation: sPtr("curious"), wantEnergy: sPtr("high")},
		},
		{
			name: "all steps skipped still counts", token: learnerToken, wantCode: http.StatusCreated,
			body:  marchallObj(t, mood.NewEntry{}),
			extra: extraTest{},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/mood"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var entry mood.Entry
				if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if entry.ID == "" {
					t.Error("failed! empty ID")
				}
				if entry.UserID != learner.ID {
					t.Errorf("failed! UserID = %s; want %s", entry.UserID, learner.ID)
				}
				extra := tt.extra.(extraTest)
				checkAnswer(t, "Emotion", entry.Emotion, extra.wantEmotion)
				checkAnswer(t, "Motivation", entry.Motivation, extra.wantMotivation)
				checkAnswer(t, "Energy", entry.Energy, extra.wantEnergy)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func checkAnswer(t *testing.T, step string, got, want *string) {
	t.Helper()

	if want == nil {
		if got != nil {
			t.Errorf("failed! %s = %q; want nil", step, *got)
		}
		return
	}
	if got == nil {
		t.Errorf("failed! %s = nil; want %q", step, *want)
	} else if *got != *want {
		t.Errorf("failed! %s = %q; want %q", step, *got, *want)
	}
}

func Test_moodApi_history(t *testing.T) {
	app := setup(t)

	learner, _ := testutil.CreateLearner(t, usrRepo, "AB9XY", "Hero Lol", 65)
	admin := testutil.CreateUser(t, usrRepo, "ADM01", "The Admin", user.RoleAdmin)
	learnerToken := getToken(t, learner)

	logEntry := func(ne mood.NewEntry) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/mood", learnerToken, marchallObj(t, ne))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("logEntry() failed! code = %v", rec.Code)
		}
	}

	type extraTest struct {
		wantEmotions []string // most recent first
	}
	tests := []httpTest{
		{name: "Auth required", path: "/v1/mood", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Learner required", path: "/v1/mood", token: getToken(t, admin), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "empty history", path: "/v1/mood", token: learnerToken, wantCode: http.StatusOK, wantData: marchallList(t)},
		{
			name: "most recent first", path: "/v1/mood", token: learnerToken, wantCode: http.StatusOK,
			extra: extraTest{wantEmotions: []string{"stressed", "energized"}},
		},
		{
			name: "limited", path: "/v1/mood?limit=1", token: learnerToken, wantCode: http.StatusOK,
			extra: extraTest{wantEmotions: []string{"stressed"}},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		if tt.name == "most recent first" {
			logEntry(mood.NewEntry{Emotion: "energized"})
			logEntry(mood.NewEntry{Emotion: "stressed"})
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if extra, ok := tt.extra.(extraTest); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var entries []mood.Entry
				if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if len(entries) != len(extra.wantEmotions) {
					t.Fatalf("failed! len(entries) = %d; want %d", len(entries), len(extra.wantEmotions))
				}
				for i, want := range extra.wantEmotions {
					checkAnswer(t, "Emotion", entries[i].Emotion, &want)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
