// Package auth は登録・ログインの認証フローとロール照会を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/househunter/internal/model"
	"github.com/hitoshi/househunter/internal/password"
	"github.com/hitoshi/househunter/internal/repository"
)

// TokenIssuer はセッショントークン発行のインターフェース。
// token.Serviceの部分集合として定義する。
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// MetricsRecorder は認証イベントのメトリクス記録インターフェース。
// nilの場合は記録しない。
type MetricsRecorder interface {
	RecordRegistration()
	RecordLoginSuccess()
	RecordLoginFailure()
}

// RegisterInput は登録リクエストの入力。
type RegisterInput struct {
	FullName    string
	Role        model.Role
	PhoneNumber string
	Email       string
	Password    string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   password.Hasher
	tokens   TokenIssuer
	metrics  MetricsRecorder
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	hasher password.Hasher,
	tokens TokenIssuer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		metrics:  metrics,
	}
}

// Register は新規ユーザーを登録する。
// 登録済みメールアドレスの場合はDuplicateUserエラーを返す。
// パスワードはハッシュ化して保存し、平文もハッシュもレスポンスには含めない。
func (s *Service) Register(ctx context.Context, input RegisterInput) error {
	if err := validateRegisterInput(input); err != nil {
		return err
	}

	// 1. 既存ユーザーの確認
	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return model.NewDuplicateUserError()
	}

	// 2. パスワードのハッシュ化
	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. ユーザーレコードの作成
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		Role:         input.Role,
		PasswordHash: digest,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lookup-then-insertの間に同時登録された場合、
		// DBの一意制約違反がここで検出される
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.NewDuplicateUserError()
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return nil
}

// Login は認証情報を検証し、セッショントークンを発行する。
// ユーザー不存在とパスワード不一致は区別せず、同一のInvalidCredentialsを返す
// （ユーザー列挙攻撃の防止）。
func (s *Service) Login(ctx context.Context, email, plaintext string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		s.recordLoginFailure()
		return "", model.NewInvalidCredentialsError()
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		s.recordLoginFailure()
		return "", model.NewInvalidCredentialsError()
	}

	tokenString, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return tokenString, nil
}

// IsOwner は指定メールアドレスのユーザーがオーナーかどうかを返す。
// アクセス制御の判定ではなく、公開されたロール照会である。
// ユーザーが存在しない場合もfalseを返す。
func (s *Service) IsOwner(ctx context.Context, email string) (bool, error) {
	return s.hasRole(ctx, email, model.RoleOwner)
}

// IsRenter は指定メールアドレスのユーザーがレンターかどうかを返す。
// ユーザーが存在しない場合もfalseを返す。
func (s *Service) IsRenter(ctx context.Context, email string) (bool, error) {
	return s.hasRole(ctx, email, model.RoleRenter)
}

// ListUsers は全ユーザーを返す。
// パスワードハッシュの除去はレスポンス変換層（handler）で行う。
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// hasRole は格納されたロールの純粋な照会を行う。
func (s *Service) hasRole(ctx context.Context, email string, role model.Role) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return false, nil
	}
	return user.Role == role, nil
}

func (s *Service) recordLoginFailure() {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure()
	}
}

// validateRegisterInput は登録入力の形式を検証する。
func validateRegisterInput(input RegisterInput) error {
	if strings.TrimSpace(input.Email) == "" {
		return model.NewInvalidRequestError("メールアドレスは必須です")
	}
	if input.Password == "" {
		return model.NewInvalidRequestError("パスワードは必須です")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return model.NewInvalidRequestError("氏名は必須です")
	}
	if !input.Role.IsValid() {
		return model.NewInvalidRequestError("roleにはownerまたはrenterを指定してください")
	}
	return nil
}
