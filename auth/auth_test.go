package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"kumo/models"
	"kumo/store"
	"kumo/utils"
)

type mockUserStore struct {
	createFunc     func(ctx context.Context, user *models.User) error
	getByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	getByIDFunc    func(ctx context.Context, id string) (*models.User, error)

	createCalls int
}

func (m *mockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	m.createCalls++
	if m.createFunc == nil {
		return nil
	}
	return m.createFunc(ctx, user)
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getByIDFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getByIDFunc(ctx, id)
}

const testSecret = "test-secret"

func authRouter(users *mockUserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(users, testSecret)
	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	protected := r.Group("")
	protected.Use(AuthMiddleware(testSecret))
	protected.GET("/auth/me", h.Me)
	return r
}

func TestSignup(t *testing.T) {
	var created *models.User
	users := &mockUserStore{
		createFunc: func(ctx context.Context, user *models.User) error {
			user.ID = "u-1"
			created = user
			return nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"new@example.com","password":"hunter2hunter2","name":"New User"}`))
	authRouter(users).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if created == nil {
		t.Fatal("CreateUser was not called")
	}
	if created.Provider != "local" {
		t.Errorf("expected provider local, got %q", created.Provider)
	}
	if created.Password == "hunter2hunter2" {
		t.Error("password was stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter2hunter2")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if strings.Contains(w.Body.String(), "hunter2") {
		t.Error("response leaked the password")
	}
}

func TestSignup_ShortPassword(t *testing.T) {
	users := &mockUserStore{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"new@example.com","password":"short"}`))
	authRouter(users).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if users.createCalls != 0 {
		t.Errorf("expected no CreateUser calls, got %d", users.createCalls)
	}
}

func TestSignup_ExistingEmail(t *testing.T) {
	users := &mockUserStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u-1", Email: email}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"taken@example.com","password":"hunter2hunter2"}`))
	authRouter(users).ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	if users.createCalls != 0 {
		t.Errorf("expected no CreateUser calls, got %d", users.createCalls)
	}
}

func TestSignup_DuplicateRace(t *testing.T) {
	users := &mockUserStore{
		createFunc: func(ctx context.Context, user *models.User) error {
			return store.ErrDuplicate
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"taken@example.com","password":"hunter2hunter2"}`))
	authRouter(users).ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func localUser(t *testing.T, password string) *mockUserStore {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &mockUserStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u-1", Email: email, Password: hash, Provider: "local"}, nil
		},
	}
}

func TestLogin(t *testing.T) {
	users := localUser(t, "hunter2hunter2")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"u@example.com","password":"hunter2hunter2"}`))
	authRouter(users).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the response")
	}
	if resp.User.ID != "u-1" || resp.User.Email != "u@example.com" {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	users := localUser(t, "hunter2hunter2")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"u@example.com","password":"wrong-password"}`))
	authRouter(users).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := &mockUserStore{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ghost@example.com","password":"whatever1"}`))
	authRouter(users).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestLogin_FederatedAccount(t *testing.T) {
	users := &mockUserStore{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "u-1", Email: email, Provider: "google"}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"g@example.com","password":"whatever1"}`))
	authRouter(users).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Google") {
		t.Errorf("expected federated-login hint, got %s", w.Body.String())
	}
}

func TestMe_WithValidToken(t *testing.T) {
	users := &mockUserStore{
		getByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			if id != "u-1" {
				return nil, store.ErrNotFound
			}
			return &models.User{ID: id, Email: "u@example.com", Provider: "local"}, nil
		},
	}
	token, err := GenerateToken(testSecret, "u-1", "u@example.com")
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(users).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "u@example.com") {
		t.Errorf("unexpected profile body: %s", w.Body.String())
	}
}

func TestMe_MissingToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	authRouter(&mockUserStore{}).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestMe_TokenSignedWithWrongSecret(t *testing.T) {
	token, err := GenerateToken("some-other-secret", "u-1", "u@example.com")
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(&mockUserStore{}).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}
