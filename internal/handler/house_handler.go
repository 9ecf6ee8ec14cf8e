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

// HouseServiceInterface は物件ハンドラーが必要とするサービスインターフェース。
type HouseServiceInterface interface {
	// Create は物件リスティングを作成する。
	Create(ctx context.Context, identity *model.Identity, input *model.House) (*model.House, error)
	// List は全物件、またはクエリに一致する物件を取得する。
	List(ctx context.Context, query string) ([]*model.House, error)
	// ListByOwner はオーナーのメールアドレスで物件を取得する。
	ListByOwner(ctx context.Context, ownerEmail string) ([]*model.House, error)
	// Update は物件を更新する。オーナーのみ実行できる。
	Update(ctx context.Context, identity *model.Identity, houseID string, input *model.House) (*model.House, error)
	// Delete は物件を削除する。オーナーのみ実行できる。
	Delete(ctx context.Context, identity *model.Identity, houseID string) error
}

// HouseHandler は物件管理のHTTPハンドラー。
type HouseHandler struct {
	service HouseServiceInterface
}

// NewHouseHandler はHouseHandlerを生成する。
func NewHouseHandler(service HouseServiceInterface) *HouseHandler {
	return &HouseHandler{service: service}
}

// houseRequest は物件作成・更新リクエストのボディ。
type houseRequest struct {
	OwnerEmail    string `json:"ownerEmail"`
	HouseName     string `json:"houseName"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Bedrooms      int    `json:"bedrooms"`
	Bathrooms     int    `json:"bathrooms"`
	RoomSize      string `json:"roomSize"`
	Picture       string `json:"picture"`
	AvailableFrom string `json:"availableFrom"`
	RentPerMonth  int    `json:"rentPerMonth"`
	PhoneNumber   string `json:"phoneNumber"`
	Description   string `json:"description"`
}

// houseResponse は物件情報のAPIレスポンス。
type houseResponse struct {
	ID            string `json:"id"`
	OwnerEmail    string `json:"ownerEmail"`
	HouseName     string `json:"houseName"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Bedrooms      int    `json:"bedrooms"`
	Bathrooms     int    `json:"bathrooms"`
	RoomSize      string `json:"roomSize"`
	Picture       string `json:"picture"`
	AvailableFrom string `json:"availableFrom"`
	RentPerMonth  int    `json:"rentPerMonth"`
	PhoneNumber   string `json:"phoneNumber"`
	Description   string `json:"description"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// CreateHouse は物件リスティングを作成する。
// POST /houses
func (h *HouseHandler) CreateHouse(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req houseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	input, apiErr := toHouseInput(&req)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	house, err := h.service.Create(r.Context(), identity, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toHouseResponse(house))
}

// ListHouses は全物件、または検索クエリに一致する物件の一覧を返す。
// GET /houses?search= および GET /allhouses
func (h *HouseHandler) ListHouses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("search")

	houses, err := h.service.List(r.Context(), query)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toHouseResponses(houses))
}

// ListManagedHouses はオーナーの管理物件一覧を返す。
// ownerEmailパラメータが空の場合は空リストを返す。
// GET /manage-house?ownerEmail=
func (h *HouseHandler) ListManagedHouses(w http.ResponseWriter, r *http.Request) {
	ownerEmail := r.URL.Query().Get("ownerEmail")

	houses, err := h.service.ListByOwner(r.Context(), ownerEmail)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toHouseResponses(houses))
}

// UpdateHouse は物件を更新する。
// PUT /houses/{houseID}
func (h *HouseHandler) UpdateHouse(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	houseID := chi.URLParam(r, "houseID")

	var req houseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	input, apiErr := toHouseInput(&req)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	house, err := h.service.Update(r.Context(), identity, houseID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toHouseResponse(house))
}

// DeleteHouse は物件を削除する。
// DELETE /manage-house/{houseID}
func (h *HouseHandler) DeleteHouse(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	houseID := chi.URLParam(r, "houseID")

	if err := h.service.Delete(r.Context(), identity, houseID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "物件を削除しました"})
}

// --- 変換ヘルパー ---

// availableFromFormat は空室予定日のワイヤーフォーマット。
const availableFromFormat = "2006-01-02"

// toHouseInput はリクエストボディからドメインモデルに変換する。
// availableFromはYYYY-MM-DD形式またはRFC3339形式を受け付ける。
func toHouseInput(req *houseRequest) (*model.House, *model.APIError) {
	var availableFrom time.Time
	if req.AvailableFrom != "" {
		t, err := time.Parse(availableFromFormat, req.AvailableFrom)
		if err != nil {
			t, err = time.Parse(time.RFC3339, req.AvailableFrom)
			if err != nil {
				return nil, model.NewInvalidRequestError("availableFromの日付形式が正しくありません")
			}
		}
		availableFrom = t
	}

	return &model.House{
		OwnerEmail:    req.OwnerEmail,
		HouseName:     req.HouseName,
		Address:       req.Address,
		City:          req.City,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		RoomSize:      req.RoomSize,
		Picture:       req.Picture,
		AvailableFrom: availableFrom,
		RentPerMonth:  req.RentPerMonth,
		PhoneNumber:   req.PhoneNumber,
		Description:   req.Description,
	}, nil
}

// toHouseResponse はmodel.HouseからAPIレスポンスに変換する。
func toHouseResponse(house *model.House) houseResponse {
	availableFrom := ""
	if !house.AvailableFrom.IsZero() {
		availableFrom = house.AvailableFrom.Format(availableFromFormat)
	}

	return houseResponse{
		ID:            house.ID,
		OwnerEmail:    house.OwnerEmail,
		HouseName:     house.HouseName,
		Address:       house.Address,
		City:          house.City,
		Bedrooms:      house.Bedrooms,
		Bathrooms:     house.Bathrooms,
		RoomSize:      house.RoomSize,
		Picture:       house.Picture,
		AvailableFrom: availableFrom,
		RentPerMonth:  house.RentPerMonth,
		PhoneNumber:   house.PhoneNumber,
		Description:   house.Description,
		CreatedAt:     house.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     house.UpdatedAt.Format(time.RFC3339),
	}
}

func toHouseResponses(houses []*model.House) []houseResponse {
	responses := make([]houseResponse, 0, len(houses))
	for _, house := range houses {
		responses = append(responses, toHouseResponse(house))
	}
	return responses
}
