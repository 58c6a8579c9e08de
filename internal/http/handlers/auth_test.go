package handlers_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/fintrack/internal/auth"
	"github.com/geocoder89/fintrack/internal/config"
	"github.com/geocoder89/fintrack/internal/domain/user"
	"github.com/geocoder89/fintrack/internal/http/handlers"
	"github.com/geocoder89/fintrack/internal/security"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake user store implementing the handlers.UserReader / UserWriter /
// PasswordRotator interfaces via function fields.

type fakeUsersRepo struct {
	createFn func(ctx context.Context, username, passwordHash string) (user.User, error)
	getFn    func(ctx context.Context, username string) (user.User, error)
	rotateFn func(ctx context.Context, id int64, passwordHash string) error
}

func (f *fakeUsersRepo) Create(ctx context.Context, username, passwordHash string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, username, passwordHash)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, username)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	if f.rotateFn != nil {
		return f.rotateFn(ctx, id, passwordHash)
	}
	return nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// legacyHashFor reproduces the digest scheme of rows imported from the old
// tracker: hex sha256 of password+secret.
func legacyHashFor(password, secret string) string {
	sum := sha256.Sum256([]byte(password + secret))
	return hex.EncodeToString(sum[:])
}

func testJWT() *auth.Manager {
	return auth.NewManager("unit-test-secret", 15*time.Minute)
}

func testCfg() config.Config {
	return config.Config{LegacySecret: "legacy-secret"}
}

// Register tests

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createFn   func(ctx context.Context, username, passwordHash string) (user.User, error)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "success",
			body: `{"username":"alice","password":"secret1"}`,
			createFn: func(ctx context.Context, username, passwordHash string) (user.User, error) {
				return user.User{ID: 1, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing password",
			body:       `{"username":"alice"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "username too short",
			body:       `{"username":"al","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Username must be 3-20 characters",
		},
		{
			name:       "username bad charset",
			body:       `{"username":"ali ce","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Username may only contain letters, digits, '_', '.' and '-'",
		},
		{
			name:       "password too short",
			body:       `{"username":"alice","password":"12345"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Password must be at least 6 characters",
		},
		{
			name: "duplicate username",
			body: `{"username":"alice","password":"secret1"}`,
			createFn: func(ctx context.Context, username, passwordHash string) (user.User, error) {
				return user.User{}, user.ErrUsernameTaken
			},
			wantStatus: http.StatusConflict,
			wantMsg:    "Username already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{createFn: tt.createFn}
			h := handlers.NewAuthHandler(repo, repo, repo, testJWT(), testCfg())

			r := setupRouter(http.MethodPost, "/auth/register", h.Register)
			w := postJSON(r, "/auth/register", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body %s)", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantMsg != "" {
				var resp struct {
					Error struct {
						Message string `json:"message"`
					} `json:"error"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid error body: %v", err)
				}
				if resp.Error.Message != tt.wantMsg {
					t.Fatalf("expected message %q, got %q", tt.wantMsg, resp.Error.Message)
				}
			}
		})
	}
}

func TestRegisterNeverEchoesPasswordHash(t *testing.T) {
	repo := &fakeUsersRepo{
		createFn: func(ctx context.Context, username, passwordHash string) (user.User, error) {
			return user.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
		},
	}
	h := handlers.NewAuthHandler(repo, repo, repo, testJWT(), testCfg())

	r := setupRouter(http.MethodPost, "/auth/register", h.Register)
	w := postJSON(r, "/auth/register", `{"username":"alice","password":"secret1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("passwordHash")) || bytes.Contains(w.Body.Bytes(), []byte("$2")) {
		t.Fatalf("response leaks the stored hash: %s", w.Body.String())
	}
}

// Login tests

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	stored := user.User{ID: 7, Username: "alice", PasswordHash: hash}

	tests := []struct {
		name       string
		body       string
		getFn      func(ctx context.Context, username string) (user.User, error)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"username":"alice","password":"secret1"}`,
			getFn: func(ctx context.Context, username string) (user.User, error) {
				return stored, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			body: `{"username":"alice","password":"wrong-password"}`,
			getFn: func(ctx context.Context, username string) (user.User, error) {
				return stored, nil
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown user",
			body: `{"username":"mallory","password":"secret1"}`,
			getFn: func(ctx context.Context, username string) (user.User, error) {
				return user.User{}, user.ErrNotFound
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing fields",
			body:       `{"username":"alice"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{getFn: tt.getFn}
			h := handlers.NewAuthHandler(repo, repo, repo, testJWT(), testCfg())

			r := setupRouter(http.MethodPost, "/auth/login", h.Login)
			w := postJSON(r, "/auth/login", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body %s)", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var resp struct {
					AccessToken string `json:"accessToken"`
					User        struct {
						ID       int64  `json:"id"`
						Username string `json:"username"`
					} `json:"user"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid login body: %v", err)
				}
				if resp.AccessToken == "" {
					t.Fatalf("expected an access token")
				}
				if resp.User.ID != 7 || resp.User.Username != "alice" {
					t.Fatalf("unexpected user payload: %+v", resp.User)
				}

				claims, err := testJWT().VerifyAccessToken(resp.AccessToken)
				if err != nil {
					t.Fatalf("issued token does not verify: %v", err)
				}
				id, err := claims.UserID()
				if err != nil || id != 7 {
					t.Fatalf("expected subject 7, got %d (%v)", id, err)
				}
			}
		})
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	// Unknown-user and wrong-password failures must be byte-identical apart
	// from the request id, so callers cannot enumerate usernames.
	hash, err := security.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	missing := &fakeUsersRepo{getFn: func(ctx context.Context, username string) (user.User, error) {
		return user.User{}, user.ErrNotFound
	}}
	wrongPw := &fakeUsersRepo{getFn: func(ctx context.Context, username string) (user.User, error) {
		return user.User{ID: 1, Username: "alice", PasswordHash: hash}, nil
	}}

	h1 := handlers.NewAuthHandler(missing, missing, missing, testJWT(), testCfg())
	h2 := handlers.NewAuthHandler(wrongPw, wrongPw, wrongPw, testJWT(), testCfg())

	w1 := postJSON(setupRouter(http.MethodPost, "/auth/login", h1.Login), "/auth/login", `{"username":"ghost","password":"secret1"}`)
	w2 := postJSON(setupRouter(http.MethodPost, "/auth/login", h2.Login), "/auth/login", `{"username":"alice","password":"bad-password"}`)

	if w1.Code != http.StatusUnauthorized || w2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", w1.Code, w2.Code)
	}
	if w1.Body.String() != w2.Body.String() {
		t.Fatalf("failure bodies differ:\n%s\n%s", w1.Body.String(), w2.Body.String())
	}
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	legacy := legacyHashFor("secret1", "legacy-secret")

	rotated := ""
	repo := &fakeUsersRepo{
		getFn: func(ctx context.Context, username string) (user.User, error) {
			return user.User{ID: 3, Username: "olduser", PasswordHash: legacy}, nil
		},
		rotateFn: func(ctx context.Context, id int64, passwordHash string) error {
			if id != 3 {
				t.Fatalf("rotated wrong user: %d", id)
			}
			rotated = passwordHash
			return nil
		},
	}

	h := handlers.NewAuthHandler(repo, repo, repo, testJWT(), testCfg())
	w := postJSON(setupRouter(http.MethodPost, "/auth/login", h.Login), "/auth/login", `{"username":"olduser","password":"secret1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}
	if rotated == "" {
		t.Fatalf("expected legacy hash to be rotated to bcrypt")
	}
	if err := security.CheckPassword(rotated, "secret1", ""); err != nil {
		t.Fatalf("rotated hash does not verify: %v", err)
	}
}
