// Package house は物件リスティングのドメインロジックを提供する。
package house

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/househunter/internal/model"
	"github.com/hitoshi/househunter/internal/repository"
	"github.com/hitoshi/househunter/internal/security"
)

// Service は物件管理のサービス層。
// 更新・削除は物件のオーナーシップゲートを通過した場合のみ実行される。
type Service struct {
	houseRepo repository.HouseRepository
	sanitizer security.DescriptionSanitizerService
}

// NewService はServiceを生成する。
func NewService(houseRepo repository.HouseRepository, sanitizer security.DescriptionSanitizerService) *Service {
	return &Service{
		houseRepo: houseRepo,
		sanitizer: sanitizer,
	}
}

// Create は新しい物件を登録する。
// ペイロードのownerEmailは認証済みユーザーのメールアドレスと照合する。
// 未指定の場合は認証済みユーザーのメールアドレスを採用する。
func (s *Service) Create(ctx context.Context, identity *model.Identity, input *model.House) (*model.House, error) {
	if strings.TrimSpace(input.HouseName) == "" {
		return nil, model.NewInvalidRequestError("物件名は必須です")
	}

	// ペイロードを無条件に信用せず、認証済みの身元と突き合わせる
	if input.OwnerEmail == "" {
		input.OwnerEmail = identity.Email
	} else if input.OwnerEmail != identity.Email {
		return nil, model.NewForbiddenError()
	}

	now := time.Now()
	house := *input
	house.ID = uuid.New().String()
	house.Description = s.sanitizer.Sanitize(input.Description)
	house.CreatedAt = now
	house.UpdatedAt = now

	if err := s.houseRepo.Create(ctx, &house); err != nil {
		return nil, fmt.Errorf("failed to create house: %w", err)
	}

	slog.Info("house created",
		slog.String("house_id", house.ID),
		slog.String("owner_email", house.OwnerEmail),
	)

	return &house, nil
}

// List は全物件を返す。
// queryが空でない場合は物件名またはオーナーのメールアドレスに対する
// 大文字小文字を区別しない部分一致で絞り込む。
func (s *Service) List(ctx context.Context, query string) ([]*model.House, error) {
	var (
		houses []*model.House
		err    error
	)
	if strings.TrimSpace(query) == "" {
		houses, err = s.houseRepo.List(ctx)
	} else {
		houses, err = s.houseRepo.Search(ctx, strings.TrimSpace(query))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	return houses, nil
}

// ListByOwner はオーナーの管理画面向けに、そのオーナーの物件一覧を返す。
// ownerEmailが空の場合は空のリストを返す。
func (s *Service) ListByOwner(ctx context.Context, ownerEmail string) ([]*model.House, error) {
	if ownerEmail == "" {
		return []*model.House{}, nil
	}

	houses, err := s.houseRepo.ListByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list houses by owner: %w", err)
	}
	return houses, nil
}

// Update は物件情報を更新する。
// 認証済みユーザーのメールアドレスが物件のownerEmailと一致する場合のみ有効。
func (s *Service) Update(ctx context.Context, identity *model.Identity, houseID string, input *model.House) (*model.House, error) {
	existing, err := s.houseRepo.FindByID(ctx, houseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find house: %w", err)
	}
	if existing == nil {
		return nil, model.NewHouseNotFoundError(houseID)
	}

	// オーナーシップゲート
	if existing.OwnerEmail != identity.Email {
		return nil, model.NewForbiddenError()
	}

	if strings.TrimSpace(input.HouseName) == "" {
		return nil, model.NewInvalidRequestError("物件名は必須です")
	}

	updated := *input
	updated.ID = existing.ID
	updated.OwnerEmail = existing.OwnerEmail // オーナーの付け替えは許可しない
	updated.Description = s.sanitizer.Sanitize(input.Description)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()

	if err := s.houseRepo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update house: %w", err)
	}

	return &updated, nil
}

// Delete は物件を削除する。
// 認証済みユーザーのメールアドレスが物件のownerEmailと一致する場合のみ有効。
func (s *Service) Delete(ctx context.Context, identity *model.Identity, houseID string) error {
	existing, err := s.houseRepo.FindByID(ctx, houseID)
	if err != nil {
		return fmt.Errorf("failed to find house: %w", err)
	}
	if existing == nil {
		return model.NewHouseNotFoundError(houseID)
	}

	// オーナーシップゲート
	if existing.OwnerEmail != identity.Email {
		return model.NewForbiddenError()
	}

	deleted, err := s.houseRepo.Delete(ctx, houseID)
	if err != nil {
		return fmt.Errorf("failed to delete house: %w", err)
	}
	if !deleted {
		// 確認と削除の間に消えた場合
		return model.NewHouseNotFoundError(houseID)
	}

	slog.Info("house deleted",
		slog.String("house_id", houseID),
		slog.String("owner_email", identity.Email),
	)

	return nil
}
