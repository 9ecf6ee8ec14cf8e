package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/househunter/internal/model"
)

// houseColumns はhousesテーブルのSELECT列リスト。
const houseColumns = `id, owner_email, house_name, address, city, bedrooms, bathrooms,
	room_size, picture, available_from, rent_per_month, phone_number, description,
	created_at, updated_at`

// PostgresHouseRepo はPostgreSQLを使用した物件リポジトリ。
type PostgresHouseRepo struct {
	db *sql.DB
}

// NewPostgresHouseRepo はPostgresHouseRepoを生成する。
func NewPostgresHouseRepo(db *sql.DB) *PostgresHouseRepo {
	return &PostgresHouseRepo{db: db}
}

// FindByID は指定IDの物件を取得する。見つからない場合はnilを返す。
func (r *PostgresHouseRepo) FindByID(ctx context.Context, id string) (*model.House, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE id = $1`,
		id,
	)
	house, err := scanHouse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find house by ID: %w", err)
	}

	return house, nil
}

// Create は物件を作成する。
func (r *PostgresHouseRepo) Create(ctx context.Context, house *model.House) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO houses (id, owner_email, house_name, address, city, bedrooms, bathrooms,
		 room_size, picture, available_from, rent_per_month, phone_number, description,
		 created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		house.ID, house.OwnerEmail, house.HouseName, house.Address, house.City,
		house.Bedrooms, house.Bathrooms, house.RoomSize, house.Picture, house.AvailableFrom,
		house.RentPerMonth, house.PhoneNumber, house.Description, house.CreatedAt, house.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert house: %w", err)
	}

	return nil
}

// List は全物件を作成日時順で返す。
func (r *PostgresHouseRepo) List(ctx context.Context) ([]*model.House, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+houseColumns+` FROM houses ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	return collectHouses(rows)
}

// ListByOwner はオーナーのメールアドレスで物件一覧を返す。
func (r *PostgresHouseRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]*model.House, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE owner_email = $1 ORDER BY created_at DESC`,
		ownerEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list houses by owner: %w", err)
	}
	return collectHouses(rows)
}

// Search はhouse_nameまたはowner_emailに対する
// 大文字小文字を区別しない部分一致で物件を検索する。
func (r *PostgresHouseRepo) Search(ctx context.Context, query string) ([]*model.House, error) {
	pattern := "%" + escapeLikePattern(query) + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+houseColumns+` FROM houses
		 WHERE house_name ILIKE $1 OR owner_email ILIKE $1
		 ORDER BY created_at DESC`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search houses: %w", err)
	}
	return collectHouses(rows)
}

// Update は物件情報を更新する。
func (r *PostgresHouseRepo) Update(ctx context.Context, house *model.House) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE houses SET house_name = $2, address = $3, city = $4, bedrooms = $5,
		 bathrooms = $6, room_size = $7, picture = $8, available_from = $9,
		 rent_per_month = $10, phone_number = $11, description = $12, updated_at = $13
		 WHERE id = $1`,
		house.ID, house.HouseName, house.Address, house.City, house.Bedrooms,
		house.Bathrooms, house.RoomSize, house.Picture, house.AvailableFrom,
		house.RentPerMonth, house.PhoneNumber, house.Description, house.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update house: %w", err)
	}

	return nil
}

// Delete は指定IDの物件を削除する。削除された場合はtrueを返す。
func (r *PostgresHouseRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM houses WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete house: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// rowScanner はsql.Rowとsql.Rowsの共通Scanインターフェース。
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanHouse は1行分の物件レコードをスキャンする。
func scanHouse(row rowScanner) (*model.House, error) {
	house := &model.House{}
	err := row.Scan(
		&house.ID, &house.OwnerEmail, &house.HouseName, &house.Address, &house.City,
		&house.Bedrooms, &house.Bathrooms, &house.RoomSize, &house.Picture,
		&house.AvailableFrom, &house.RentPerMonth, &house.PhoneNumber, &house.Description,
		&house.CreatedAt, &house.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return house, nil
}

// collectHouses は結果セット全体を物件スライスに変換する。
func collectHouses(rows *sql.Rows) ([]*model.House, error) {
	defer rows.Close()

	var houses []*model.House
	for rows.Next() {
		house, err := scanHouse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan house: %w", err)
		}
		houses = append(houses, house)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate houses: %w", err)
	}

	return houses, nil
}

// escapeLikePattern はLIKE/ILIKEパターンのメタ文字をエスケープする。
// 検索語に%や_が含まれてもリテラルとして扱う。
func escapeLikePattern(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

// compile-time interface check
var _ HouseRepository = (*PostgresHouseRepo)(nil)
