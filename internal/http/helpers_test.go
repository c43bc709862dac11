package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	api "github.com/tazhibayda/recipe-service/internal/http"
	"github.com/tazhibayda/recipe-service/internal/images"
	"github.com/tazhibayda/recipe-service/internal/queue"
	"github.com/tazhibayda/recipe-service/internal/repo"
)

const testSecret = "test_secret"

type testEnv struct {
	T      *testing.T
	Mem    *repo.Memory
	Images *images.Store
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := repo.NewMemory()
	imgs, err := images.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("image store: %v", err)
	}

	h := api.NewHandler(mem, mem, imgs, testSecret, queue.NewNoop())
	return &testEnv{T: t, Mem: mem, Images: imgs, Router: api.NewRouter(h)}
}

func (e *testEnv) doJSON(method, path, body, token string) *httptest.ResponseRecorder {
	e.T.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doForm(method, path string, fields url.Values, token string) *httptest.ResponseRecorder {
	e.T.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

// doMultipart sends fields plus an optional file part named "image".
func (e *testEnv) doMultipart(method, path string, fields map[string]string, filename string, file io.Reader, token string) *httptest.ResponseRecorder {
	e.T.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			e.T.Fatal(err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("image", filename)
		if err != nil {
			e.T.Fatal(err)
		}
		if _, err := io.Copy(part, file); err != nil {
			e.T.Fatal(err)
		}
	}
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

// signup registers a fresh user and returns the issued token.
func (e *testEnv) signup(firstName, email, password string) string {
	e.T.Helper()
	body := `{"firstName":"` + firstName + `","lastName":"Tester","email":"` + email + `","password":"` + password + `"}`
	w := e.doJSON("POST", "/signup", body, "")
	if w.Code != 201 {
		e.T.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		e.T.Fatalf("signup resp: %v %s", err, w.Body.String())
	}
	return resp.Token
}
