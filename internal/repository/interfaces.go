// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/househunter/internal/model"
)

// ErrDuplicateEmail はusers.emailの一意制約違反を表す。
// 同時登録の競合はこのエラーを通じて検出される。
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// emailの一意制約違反の場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// List は全ユーザーを返す。
	List(ctx context.Context) ([]*model.User, error)
}

// HouseRepository は物件データの永続化インターフェース。
type HouseRepository interface {
	// FindByID は指定IDの物件を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.House, error)

	// Create は物件を作成する。
	Create(ctx context.Context, house *model.House) error

	// List は全物件を返す。
	List(ctx context.Context) ([]*model.House, error)

	// ListByOwner はオーナーのメールアドレスで物件一覧を返す。
	ListByOwner(ctx context.Context, ownerEmail string) ([]*model.House, error)

	// Search はhouse_nameまたはowner_emailに対する
	// 大文字小文字を区別しない部分一致で物件を検索する。
	Search(ctx context.Context, query string) ([]*model.House, error)

	// Update は物件情報を更新する。
	Update(ctx context.Context, house *model.House) error

	// Delete は指定IDの物件を削除する。削除された場合はtrueを返す。
	Delete(ctx context.Context, id string) (bool, error)
}

// BookingRepository は予約データの永続化インターフェース。
type BookingRepository interface {
	// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Booking, error)

	// Create は予約を作成する。
	Create(ctx context.Context, booking *model.Booking) error

	// ListByEmail はレンターのメールアドレスで予約一覧を返す。
	ListByEmail(ctx context.Context, email string) ([]*model.Booking, error)

	// CountByEmail はレンターのメールアドレスで予約数を返す。
	CountByEmail(ctx context.Context, email string) (int, error)

	// Delete は指定IDの予約を削除する。削除された場合はtrueを返す。
	Delete(ctx context.Context, id string) (bool, error)
}
