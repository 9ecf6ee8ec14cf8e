package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/househunter/internal/middleware"
	"github.com/hitoshi/househunter/internal/model"
)

// BookingServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type BookingServiceInterface interface {
	// Create は予約を作成する。
	Create(ctx context.Context, identity *model.Identity, input *model.Booking) (*model.Booking, error)
	// ListByEmail はレンターのメールアドレスで予約を取得する。
	ListByEmail(ctx context.Context, email string) ([]*model.Booking, error)
	// CountByEmail はレンターのメールアドレスで予約数を取得する。
	CountByEmail(ctx context.Context, email string) (int, error)
	// Delete は予約を削除する。予約者本人のみ実行できる。
	Delete(ctx context.Context, identity *model.Identity, bookingID string) error
}

// BookingHandler は予約管理のHTTPハンドラー。
type BookingHandler struct {
	service BookingServiceInterface
}

// NewBookingHandler はBookingHandlerを生成する。
func NewBookingHandler(service BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: service}
}

// bookingRequest は予約作成リクエストのボディ。
type bookingRequest struct {
	Email       string `json:"email"`
	HouseID     string `json:"houseId"`
	HouseName   string `json:"houseName"`
	RenterName  string `json:"renterName"`
	PhoneNumber string `json:"phoneNumber"`
}

// bookingResponse は予約情報のAPIレスポンス。
type bookingResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	HouseID     string `json:"houseId"`
	HouseName   string `json:"houseName"`
	RenterName  string `json:"renterName"`
	PhoneNumber string `json:"phoneNumber"`
	CreatedAt   string `json:"createdAt"`
}

// CreateBooking は予約を作成する。
// POST /bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	input := &model.Booking{
		Email:       req.Email,
		HouseID:     req.HouseID,
		HouseName:   req.HouseName,
		RenterName:  req.RenterName,
		PhoneNumber: req.PhoneNumber,
	}

	booking, err := h.service.Create(r.Context(), identity, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toBookingResponse(booking))
}

// ListBookings はレンターの予約一覧を返す。
// emailパラメータが空の場合は空リストを返す。
// GET /bookings?email=
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	bookings, err := h.service.ListByEmail(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]bookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		responses = append(responses, toBookingResponse(booking))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// CountBookings はレンターの予約数を返す。
// GET /bookings/count?email=
func (h *BookingHandler) CountBookings(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	count, err := h.service.CountByEmail(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"count": count})
}

// DeleteBooking は予約を削除する。
// DELETE /bookings/{bookingID}
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	bookingID := chi.URLParam(r, "bookingID")

	if err := h.service.Delete(r.Context(), identity, bookingID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "予約を削除しました"})
}

// toBookingResponse はmodel.BookingからAPIレスポンスに変換する。
func toBookingResponse(booking *model.Booking) bookingResponse {
	return bookingResponse{
		ID:          booking.ID,
		Email:       booking.Email,
		HouseID:     booking.HouseID,
		HouseName:   booking.HouseName,
		RenterName:  booking.RenterName,
		PhoneNumber: booking.PhoneNumber,
		CreatedAt:   booking.CreatedAt.Format(time.RFC3339),
	}
}
