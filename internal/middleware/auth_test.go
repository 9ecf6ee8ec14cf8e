package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/househunter/internal/model"
)

// --- モック定義 ---

type mockTokenValidator struct {
	validateFn func(tokenString string) (*model.Identity, error)
}

func (m *mockTokenValidator) Validate(tokenString string) (*model.Identity, error) {
	if m.validateFn != nil {
		return m.validateFn(tokenString)
	}
	return nil, errors.New("invalid token")
}

// --- テスト ---

// 有効なトークンで認証済みユーザーがコンテキストに注入されることを検証
func TestAuthMiddleware_ValidToken_InjectsIdentity(t *testing.T) {
	validator := &mockTokenValidator{
		validateFn: func(tokenString string) (*model.Identity, error) {
			if tokenString != "valid-token" {
				t.Errorf("token = %q, want %q", tokenString, "valid-token")
			}
			return &model.Identity{UserID: "user-123", Email: "alice@x.com"}, nil
		},
	}

	mw := NewAuthMiddleware(validator)

	var captured *model.Identity
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := IdentityFromContext(r.Context())
		if err != nil {
			t.Errorf("IdentityFromContext() error = %v", err)
		}
		captured = identity
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if captured == nil || captured.Email != "alice@x.com" {
		t.Errorf("captured identity = %v, want alice@x.com", captured)
	}
}

// トークン未提示が401になることを検証（403ではない）
func TestAuthMiddleware_MissingToken_Returns401(t *testing.T) {
	mw := NewAuthMiddleware(&mockTokenValidator{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without token")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"ヘッダーなし", ""},
		{"Bearer形式でない", "Basic dXNlcjpwYXNz"},
		{"トークン部分が空", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Result().StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
			}
		})
	}
}

// 無効なトークンが403になることを検証（401ではない — 意図的な非対称）
func TestAuthMiddleware_InvalidToken_Returns403(t *testing.T) {
	validator := &mockTokenValidator{
		validateFn: func(tokenString string) (*model.Identity, error) {
			return nil, errors.New("token is expired")
		},
	}
	mw := NewAuthMiddleware(validator)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called with invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusForbidden)
	}
}

// コンテキストに認証済みユーザーがない場合のIdentityFromContextを検証
func TestIdentityFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := IdentityFromContext(req.Context())
	if err == nil {
		t.Error("IdentityFromContext() error = nil, want error")
	}
}
