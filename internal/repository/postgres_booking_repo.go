package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/househunter/internal/model"
)

// PostgresBookingRepo はPostgreSQLを使用した予約リポジトリ。
type PostgresBookingRepo struct {
	db *sql.DB
}

// NewPostgresBookingRepo はPostgresBookingRepoを生成する。
func NewPostgresBookingRepo(db *sql.DB) *PostgresBookingRepo {
	return &PostgresBookingRepo{db: db}
}

// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
func (r *PostgresBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	booking := &model.Booking{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, house_id, house_name, renter_name, phone_number, created_at
		 FROM bookings WHERE id = $1`,
		id,
	).Scan(&booking.ID, &booking.Email, &booking.HouseID, &booking.HouseName,
		&booking.RenterName, &booking.PhoneNumber, &booking.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}

	return booking, nil
}

// Create は予約を作成する。
func (r *PostgresBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (id, email, house_id, house_name, renter_name, phone_number, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		booking.ID, booking.Email, booking.HouseID, booking.HouseName,
		booking.RenterName, booking.PhoneNumber, booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

// ListByEmail はレンターのメールアドレスで予約一覧を返す。
func (r *PostgresBookingRepo) ListByEmail(ctx context.Context, email string) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, house_id, house_name, renter_name, phone_number, created_at
		 FROM bookings WHERE email = $1 ORDER BY created_at DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking := &model.Booking{}
		if err := rows.Scan(&booking.ID, &booking.Email, &booking.HouseID, &booking.HouseName,
			&booking.RenterName, &booking.PhoneNumber, &booking.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return bookings, nil
}

// CountByEmail はレンターのメールアドレスで予約数を返す。
func (r *PostgresBookingRepo) CountByEmail(ctx context.Context, email string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE email = $1`,
		email,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

// Delete は指定IDの予約を削除する。削除された場合はtrueを返す。
func (r *PostgresBookingRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM bookings WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete booking: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ BookingRepository = (*PostgresBookingRepo)(nil)
