package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/househunter/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// ListUsers は全ユーザーを取得する。
	ListUsers(ctx context.Context) ([]*model.User, error)
	// IsOwner は指定メールアドレスのユーザーがオーナーかどうかを返す。
	IsOwner(ctx context.Context, email string) (bool, error)
	// IsRenter は指定メールアドレスのユーザーがレンターかどうかを返す。
	IsRenter(ctx context.Context, email string) (bool, error)
}

// UserHandler はユーザー参照系のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// userResponse はユーザー情報のAPIレスポンス。
// パスワードハッシュは含めない。
type userResponse struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// ListUsers は全ユーザーの一覧を返す。
// GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]userResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// CheckOwner は指定メールアドレスのユーザーがオーナーかどうかを返す。
// ロール参照クエリであり、アクセス制御の判定ではない。
// GET /users/owner/{email}
func (h *UserHandler) CheckOwner(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	isOwner, err := h.service.IsOwner(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"owner": isOwner})
}

// CheckRenter は指定メールアドレスのユーザーがレンターかどうかを返す。
// GET /users/renter/{email}
func (h *UserHandler) CheckRenter(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	isRenter, err := h.service.IsRenter(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"renter": isRenter})
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
	}
}
