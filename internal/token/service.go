// Package token は署名付きセッショントークンの発行と検証を提供する。
//
// トークンはHS256署名のJWTで、サーバー側に状態を持たない。
// 有効性は提示時の署名検証と有効期限チェックのみで決まる（失効リストなし）。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/househunter/internal/model"
)

// 検証失敗の種別。診断用に内部では区別するが、
// 認可ミドルウェアは外部的にすべて同一の拒否として扱う。
var (
	// ErrTokenMalformed はトークンが構造的に解析できないことを表す。
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenSignatureInvalid は署名が現在の秘密鍵で検証できないことを表す。
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	// ErrTokenExpired は署名は有効だが有効期限を過ぎていることを表す。
	ErrTokenExpired = errors.New("token is expired")
)

// Claims はセッショントークンのペイロード。
// subjectにユーザーID、emailに認可判定用のメールアドレスを持つ。
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service はセッショントークンの発行・検証サービス。
// 署名鍵はプロセス起動時に設定され、以後読み取り専用。
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService はServiceを生成する。ttlはトークンの有効期間。
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue はユーザーIDとメールアドレスを主体とするトークンを発行する。
// 有効期限は署名対象のペイロードに含まれる。
func (s *Service) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate はトークンを検証し、認証済みユーザーを返す。
// 失敗時はErrTokenMalformed、ErrTokenSignatureInvalid、ErrTokenExpiredのいずれかを返す。
func (s *Service) Validate(tokenString string) (*model.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}

	if !parsed.Valid {
		return nil, ErrTokenSignatureInvalid
	}

	return &model.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}

// mapParseError はjwtライブラリのエラーを本パッケージの失敗種別にマップする。
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		// 署名不一致、アルゴリズム不正などはすべて署名無効として扱う
		return ErrTokenSignatureInvalid
	}
}
