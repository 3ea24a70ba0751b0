package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/hamasa/apps/api/echo"
	"github.com/trezcool/hamasa/core"
	"github.com/trezcool/hamasa/core/assignment"
	"github.com/trezcool/hamasa/core/mood"
	"github.com/trezcool/hamasa/core/user"
	emailsvc "github.com/trezcool/hamasa/services/email"
	inmemdb "github.com/trezcool/hamasa/storage/database/inmem"
)

var (
	usrRepo   user.Repository
	asgRepo   assignment.Repository
	moodRepo  mood.Repository
	fileStore *memFileStore

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

// memFileStore keeps uploads in memory so tests can assert on what reached
// object storage.
type memFileStore struct {
	mu      sync.Mutex
	objects map[string]string
}

var _ core.FileStore = (*memFileStore)(nil)

func (s *memFileStore) Upload(ctx context.Context, path, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[path] = string(data)
	s.mu.Unlock()
	return nil
}

func (s *memFileStore) PublicURL(path string) string { return "https://files.test/" + path }

func (s *memFileStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func setup(t *testing.T) *echoapi.Server {
	// set up DB & repos
	db := inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(db)
	asgRepo = inmemdb.NewAssignmentRepository(db)
	moodRepo = inmemdb.NewMoodRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	fileStore = &memFileStore{objects: make(map[string]string)}
	usrSvc := user.NewService(db, usrRepo)
	asgSvc := assignment.NewService(db, asgRepo, usrRepo, fileStore, mailSvc)
	moodSvc := mood.NewService(moodRepo)

	// set up server
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:           core.Conf,
		Logger:         logger,
		UserSvc:        usrSvc,
		AssignmentSvc:  asgSvc,
		MoodSvc:        moodSvc,
		Validate:       validate,
		Translator:     core.Translator,
		DisableReqLogs: true,
	})
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
