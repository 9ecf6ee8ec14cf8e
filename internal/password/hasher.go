// Package password はパスワードの一方向ハッシュ化と検証を提供する。
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost はbcryptのコストファクタ。
// ブルートフォース耐性とログインレイテンシ（数十ミリ秒）のバランスをとる。
const hashCost = 10

// Hasher はパスワードのハッシュ化・検証インターフェース。
type Hasher interface {
	// Hash は平文パスワードからソルト付きダイジェストを生成する。
	// ソルトは毎回ランダムに生成されるため、同一入力でも出力は一致しない。
	Hash(plaintext string) (string, error)

	// Verify は平文パスワードとダイジェストの一致を検証する。
	// ダイジェストが破損している場合もfalseを返す（エラーにはしない）。
	Verify(plaintext, digest string) bool
}

// BcryptHasher はbcryptによるHasherの実装。
type BcryptHasher struct{}

// NewBcryptHasher はBcryptHasherを生成する。
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

// Hash は平文パスワードからソルト付きダイジェストを生成する。
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify は平文パスワードとダイジェストの一致を検証する。
// 不一致・ダイジェスト破損のいずれもfalseを返す。
// ダイジェスト破損はデータ整合性の問題であり、制御フローの例外として扱わない。
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// compile-time interface check
var _ Hasher = (*BcryptHasher)(nil)
