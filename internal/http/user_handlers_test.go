package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/recipe-service/internal/domain"
	api "github.com/tazhibayda/recipe-service/internal/http"
	"github.com/tazhibayda/recipe-service/internal/images"
	"github.com/tazhibayda/recipe-service/internal/queue"
	"github.com/tazhibayda/recipe-service/internal/repo"
)

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON("POST", "/signup",
		`{"firstName":"A","lastName":"B","email":"a@b.com","password":"abcdefg"}`, "")
	if w.Code != 201 {
		t.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Result string `json:"result"`
		Token  string `json:"token"`
		User   struct {
			Recipes      []string `json:"recipes"`
			LikedRecipes []string `json:"likedRecipes"`
			Email        string   `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("resp: %v %s", err, w.Body.String())
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}
	if len(resp.User.Recipes) != 0 || len(resp.User.LikedRecipes) != 0 {
		t.Fatalf("new user must start with empty reference arrays: %s", w.Body.String())
	}

	// hash and token set must not leak into the response
	if body := w.Body.String(); containsAny(body, `"password"`, `"tokens"`) {
		t.Fatalf("credentials leaked: %s", body)
	}

	u, err := env.Mem.FindUserByEmail(context.Background(), "a@b.com")
	if err != nil || u == nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if len(u.Tokens) != 1 || u.Tokens[0] != resp.Token {
		t.Fatalf("exactly the issued token must be active, got %v", u.Tokens)
	}
	if u.PasswordHash == "abcdefg" || u.PasswordHash == "" {
		t.Fatal("password stored unhashed")
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty first name", `{"firstName":"","lastName":"B","email":"a@b.com","password":"abcdefg"}`},
		{"empty last name", `{"firstName":"A","lastName":" ","email":"a@b.com","password":"abcdefg"}`},
		{"bad email", `{"firstName":"A","lastName":"B","email":"nope","password":"abcdefg"}`},
		{"six char password", `{"firstName":"A","lastName":"B","email":"a@b.com","password":"abcdef"}`},
	}
	for _, tc := range cases {
		if w := env.doJSON("POST", "/signup", tc.body, ""); w.Code != 400 {
			t.Fatalf("%s: expected 400, got %d %s", tc.name, w.Code, w.Body.String())
		}
	}
}

// errLookupUsers simulates a storage outage on the signup lookup.
type errLookupUsers struct {
	*repo.Memory
}

func (e *errLookupUsers) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, errors.New("connection reset by peer")
}

func TestSignupStorageFailureIsNotDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mem := repo.NewMemory()
	imgs, err := images.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := api.NewHandler(&errLookupUsers{mem}, mem, imgs, testSecret, queue.NewNoop())
	router := api.NewRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/signup",
		strings.NewReader(`{"firstName":"A","lastName":"B","email":"a@b.com","password":"abcdefg"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("lookup failure: expected 400, got %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "already registered") {
		t.Fatalf("storage failure must not be reported as a duplicate email: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "User lookup failed.") {
		t.Fatalf("unexpected error body: %s", w.Body.String())
	}
}

// failingPub errors on every publish.
type failingPub struct{}

func (failingPub) Publish(context.Context, string, string, any, string) error {
	return errors.New("broker down")
}
func (failingPub) Close() error { return nil }

func TestSignupSucceedsWhenPublishFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mem := repo.NewMemory()
	imgs, err := images.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := api.NewHandler(mem, mem, imgs, testSecret, failingPub{})
	router := api.NewRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/signup",
		strings.NewReader(`{"firstName":"A","lastName":"B","email":"a@b.com","password":"abcdefg"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// event publishing is fire-and-forget; a dead broker must not
	// fail the request
	if w.Code != 201 {
		t.Fatalf("signup with dead broker: expected 201, got %d %s", w.Code, w.Body.String())
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup("A", "a@b.com", "abcdefg")

	w := env.doJSON("POST", "/signup",
		`{"firstName":"Other","lastName":"Person","email":"a@b.com","password":"zzzzzzz"}`, "")
	if w.Code != 400 {
		t.Fatalf("duplicate email: expected 400, got %d %s", w.Code, w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	first := env.signup("A", "a@b.com", "abcdefg")

	w := env.doJSON("POST", "/login", `{"email":"a@b.com","password":"abcdefg"}`, "")
	if w.Code != 200 {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Fatal("empty token")
	}

	// both sessions active
	u, _ := env.Mem.FindUserByEmail(context.Background(), "a@b.com")
	if len(u.Tokens) != 2 {
		t.Fatalf("expected 2 active tokens, got %d", len(u.Tokens))
	}
	_ = first
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	env.signup("A", "a@b.com", "abcdefg")

	if w := env.doJSON("POST", "/login", `{"email":"a@b.com","password":"wrongpw"}`, ""); w.Code != 400 {
		t.Fatalf("wrong password: expected 400, got %d", w.Code)
	}
	if w := env.doJSON("POST", "/login", `{"email":"nobody@b.com","password":"abcdefg"}`, ""); w.Code != 400 {
		t.Fatalf("unknown email: expected 400, got %d", w.Code)
	}
}

func TestUserData(t *testing.T) {
	env := newTestEnv(t)
	tok := env.signup("A", "a@b.com", "abcdefg")

	w := env.doJSON("GET", "/userData", "", tok)
	if w.Code != 200 {
		t.Fatalf("userData: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		User struct {
			FirstName string `json:"firstName"`
			Email     string `json:"email"`
		} `json:"user"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.User.FirstName != "A" || resp.User.Email != "a@b.com" {
		t.Fatalf("projection mismatch: %s", w.Body.String())
	}
	if containsAny(w.Body.String(), `"recipes"`, `"tokens"`, `"password"`) {
		t.Fatalf("projection leaks fields: %s", w.Body.String())
	}
}

func TestLogoutRevokesOnlyPresentedToken(t *testing.T) {
	env := newTestEnv(t)
	tok1 := env.signup("A", "a@b.com", "abcdefg")

	w := env.doJSON("POST", "/login", `{"email":"a@b.com","password":"abcdefg"}`, "")
	var lr struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &lr)

	if w := env.doJSON("POST", "/logout", "", tok1); w.Code != 200 {
		t.Fatalf("logout: %d %s", w.Code, w.Body.String())
	}

	// the presented token is dead, the other session survives
	if w := env.doJSON("GET", "/userData", "", tok1); w.Code != 401 {
		t.Fatalf("revoked token: expected 401, got %d", w.Code)
	}
	if w := env.doJSON("GET", "/userData", "", lr.Token); w.Code != 200 {
		t.Fatalf("second session: expected 200, got %d %s", w.Code, w.Body.String())
	}
}

func TestUpdateUserPasswordPolicy(t *testing.T) {
	env := newTestEnv(t)
	tok := env.signup("A", "a@b.com", "abcdefg")

	before, _ := env.Mem.FindUserByEmail(context.Background(), "a@b.com")

	// empty newPassword keeps the old hash
	w := env.doForm("POST", "/updateUser", url.Values{
		"firstName":   {"A2"},
		"lastName":    {"B2"},
		"oldPassword": {"abcdefg"},
		"newPassword": {""},
	}, tok)
	if w.Code != 200 {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	after, _ := env.Mem.FindUserByEmail(context.Background(), "a@b.com")
	if after.PasswordHash != before.PasswordHash {
		t.Fatal("hash must be unchanged without a new password")
	}
	if after.FirstName != "A2" || after.LastName != "B2" {
		t.Fatalf("names not updated: %+v", after)
	}

	// too-short newPassword is rejected, not silently ignored
	w = env.doForm("POST", "/updateUser", url.Values{
		"firstName":   {"A2"},
		"lastName":    {"B2"},
		"oldPassword": {"abcdefg"},
		"newPassword": {"abc"},
	}, tok)
	if w.Code != 503 {
		t.Fatalf("short password: expected 503, got %d", w.Code)
	}

	// a valid newPassword re-hashes
	w = env.doForm("POST", "/updateUser", url.Values{
		"firstName":   {"A2"},
		"lastName":    {"B2"},
		"oldPassword": {"abcdefg"},
		"newPassword": {"newpass"},
	}, tok)
	if w.Code != 200 {
		t.Fatalf("update with new password: %d %s", w.Code, w.Body.String())
	}
	final, _ := env.Mem.FindUserByEmail(context.Background(), "a@b.com")
	if final.PasswordHash == after.PasswordHash {
		t.Fatal("hash must change with a valid new password")
	}
	if w := env.doJSON("POST", "/login", `{"email":"a@b.com","password":"newpass"}`, ""); w.Code != 200 {
		t.Fatalf("login with new password: %d", w.Code)
	}
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestUpdateUserKeepsOldImageWhenSaveFails(t *testing.T) {
	env := newTestEnv(t)
	tok := env.signup("A", "a@b.com", "abcdefg")

	fields := map[string]string{
		"firstName":   "A",
		"lastName":    "B",
		"oldPassword": "abcdefg",
	}

	w := env.doMultipart("POST", "/updateUser", fields, "me.png", bytes.NewReader(pngImage(t)), tok)
	if w.Code != 200 {
		t.Fatalf("update with image: %d %s", w.Code, w.Body.String())
	}
	u, _ := env.Mem.FindUserByEmail(context.Background(), "a@b.com")
	old := u.Image
	if old == "" {
		t.Fatal("profile image not recorded")
	}
	if _, err := os.Stat(filepath.FromSlash(old)); err != nil {
		t.Fatalf("profile image not on disk: %v", err)
	}

	// an undecodable upload fails the request; the recorded image and
	// its file must both survive
	w = env.doMultipart("POST", "/updateUser", fields, "bad.png", strings.NewReader("not an image"), tok)
	if w.Code != 503 {
		t.Fatalf("bad upload: expected 503, got %d %s", w.Code, w.Body.String())
	}
	u, _ = env.Mem.FindUserByEmail(context.Background(), "a@b.com")
	if u.Image != old {
		t.Fatalf("recorded image changed after a failed upload: %s", u.Image)
	}
	if _, err := os.Stat(filepath.FromSlash(old)); err != nil {
		t.Fatalf("old image deleted after a failed upload: %v", err)
	}
}

func TestUpdateUserWrongOldPassword(t *testing.T) {
	env := newTestEnv(t)
	tok := env.signup("A", "a@b.com", "abcdefg")

	w := env.doForm("POST", "/updateUser", url.Values{
		"firstName":   {"A"},
		"lastName":    {"B"},
		"oldPassword": {"nottheone"},
	}, tok)
	if w.Code != 503 {
		t.Fatalf("wrong old password: expected 503, got %d %s", w.Code, w.Body.String())
	}
}
