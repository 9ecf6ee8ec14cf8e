// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの役割を表す。
type Role string

const (
	// RoleOwner は物件のオーナー（貸主）を表す。
	RoleOwner Role = "owner"
	// RoleRenter は入居希望者（借主）を表す。
	RoleRenter Role = "renter"
)

// IsValid は役割が定義済みの値かどうかを返す。
func (r Role) IsValid() bool {
	return r == RoleOwner || r == RoleRenter
}

// User はサービス利用ユーザーを表す。
// Emailが一意キー。PasswordHashはクライアントに返却してはならない。
type User struct {
	ID           string
	Email        string
	FullName     string
	PhoneNumber  string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// Identity は検証済みセッショントークンから復元された認証済みユーザーを表す。
// 認可ミドルウェアがリクエストコンテキストに注入する。
type Identity struct {
	UserID string
	Email  string
}
