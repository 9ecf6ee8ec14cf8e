// Package model はドメインモデルを定義する。
package model

import "time"

// House は賃貸物件のリスティングを表す。
// OwnerEmailは作成したオーナーのUser.Emailを指す（参照整合性はアプリ層で担保）。
type House struct {
	ID            string
	OwnerEmail    string
	HouseName     string
	Address       string
	City          string
	Bedrooms      int
	Bathrooms     int
	RoomSize      string
	Picture       string
	AvailableFrom time.Time
	RentPerMonth  int
	PhoneNumber   string
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Booking は物件の予約を表す。
// Emailは予約したレンターのUser.Emailを指す。
type Booking struct {
	ID          string
	Email       string
	HouseID     string
	HouseName   string
	RenterName  string
	PhoneNumber string
	CreatedAt   time.Time
}
