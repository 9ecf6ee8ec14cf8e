// Package booking は予約のドメインロジックを提供する。
package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/househunter/internal/model"
	"github.com/hitoshi/househunter/internal/repository"
)

// MetricsRecorder は予約イベントのメトリクス記録インターフェース。
// nilの場合は記録しない。
type MetricsRecorder interface {
	RecordBookingCreated()
}

// Service は予約管理のサービス層。
// 削除は予約のオーナーシップゲートを通過した場合のみ実行される。
type Service struct {
	bookingRepo repository.BookingRepository
	houseRepo   repository.HouseRepository
	metrics     MetricsRecorder
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(bookingRepo repository.BookingRepository, houseRepo repository.HouseRepository, metrics MetricsRecorder) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		houseRepo:   houseRepo,
		metrics:     metrics,
	}
}

// Create は新しい予約を登録する。
// ペイロードのemailは認証済みユーザーのメールアドレスと照合する。
// 未指定の場合は認証済みユーザーのメールアドレスを採用する。
// 対象物件が存在しない場合はHouseNotFoundを返す。
func (s *Service) Create(ctx context.Context, identity *model.Identity, input *model.Booking) (*model.Booking, error) {
	if strings.TrimSpace(input.HouseID) == "" {
		return nil, model.NewInvalidRequestError("houseIdは必須です")
	}

	// ペイロードを無条件に信用せず、認証済みの身元と突き合わせる
	if input.Email == "" {
		input.Email = identity.Email
	} else if input.Email != identity.Email {
		return nil, model.NewForbiddenError()
	}

	house, err := s.houseRepo.FindByID(ctx, input.HouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find house: %w", err)
	}
	if house == nil {
		return nil, model.NewHouseNotFoundError(input.HouseID)
	}

	booking := *input
	booking.ID = uuid.New().String()
	if booking.HouseName == "" {
		booking.HouseName = house.HouseName
	}
	booking.CreatedAt = time.Now()

	if err := s.bookingRepo.Create(ctx, &booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordBookingCreated()
	}

	slog.Info("booking created",
		slog.String("booking_id", booking.ID),
		slog.String("house_id", booking.HouseID),
	)

	return &booking, nil
}

// ListByEmail はレンターのメールアドレスで予約一覧を返す。
// emailが空の場合は空のリストを返す。
func (s *Service) ListByEmail(ctx context.Context, email string) ([]*model.Booking, error) {
	if email == "" {
		return []*model.Booking{}, nil
	}

	bookings, err := s.bookingRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// CountByEmail はレンターのメールアドレスで予約数を返す。
func (s *Service) CountByEmail(ctx context.Context, email string) (int, error) {
	if email == "" {
		return 0, nil
	}

	count, err := s.bookingRepo.CountByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// Delete は予約を削除する。
// 認証済みユーザーのメールアドレスが予約のemailと一致する場合のみ有効。
// 削除済みIDへの2回目の呼び出しはBookingNotFoundを返す（冪等な成功にはしない）。
func (s *Service) Delete(ctx context.Context, identity *model.Identity, bookingID string) error {
	existing, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to find booking: %w", err)
	}
	if existing == nil {
		return model.NewBookingNotFoundError(bookingID)
	}

	// オーナーシップゲート
	if existing.Email != identity.Email {
		return model.NewForbiddenError()
	}

	deleted, err := s.bookingRepo.Delete(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if !deleted {
		// 確認と削除の間に消えた場合
		return model.NewBookingNotFoundError(bookingID)
	}

	slog.Info("booking deleted",
		slog.String("booking_id", bookingID),
		slog.String("email", identity.Email),
	)

	return nil
}
