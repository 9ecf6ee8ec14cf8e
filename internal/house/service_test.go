package house

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/househunter/internal/model"
	"github.com/hitoshi/househunter/internal/repository"
	"github.com/hitoshi/househunter/internal/security"
)

// --- モック定義 ---

type mockHouseRepo struct {
	findByIDFn    func(ctx context.Context, id string) (*model.House, error)
	createFn      func(ctx context.Context, house *model.House) error
	listFn        func(ctx context.Context) ([]*model.House, error)
	listByOwnerFn func(ctx context.Context, ownerEmail string) ([]*model.House, error)
	searchFn      func(ctx context.Context, query string) ([]*model.House, error)
	updateFn      func(ctx context.Context, house *model.House) error
	deleteFn      func(ctx context.Context, id string) (bool, error)
}

func (m *mockHouseRepo) FindByID(ctx context.Context, id string) (*model.House, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockHouseRepo) Create(ctx context.Context, house *model.House) error {
	if m.createFn != nil {
		return m.createFn(ctx, house)
	}
	return nil
}

func (m *mockHouseRepo) List(ctx context.Context) ([]*model.House, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockHouseRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]*model.House, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerEmail)
	}
	return nil, nil
}

func (m *mockHouseRepo) Search(ctx context.Context, query string) ([]*model.House, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

func (m *mockHouseRepo) Update(ctx context.Context, house *model.House) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, house)
	}
	return nil
}

func (m *mockHouseRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return true, nil
}

var _ repository.HouseRepository = (*mockHouseRepo)(nil)

func newTestService(repo *mockHouseRepo) *Service {
	return NewService(repo, security.NewDescriptionSanitizer())
}

func ownerIdentity() *model.Identity {
	return &model.Identity{UserID: "user-1", Email: "alice@x.com"}
}

// --- Create テスト ---

// オーナー自身のメールアドレスでの物件登録が成功することを検証
func TestService_Create_Success(t *testing.T) {
	var created *model.House
	repo := &mockHouseRepo{
		createFn: func(ctx context.Context, house *model.House) error {
			created = house
			return nil
		},
	}
	svc := newTestService(repo)

	input := &model.House{
		OwnerEmail: "alice@x.com",
		HouseName:  "Sunny Apartment",
		City:       "Tokyo",
	}
	got, err := svc.Create(context.Background(), ownerIdentity(), input)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created == nil {
		t.Fatal("expected house to be stored")
	}
	if got.ID == "" {
		t.Error("expected generated house ID")
	}
	if got.OwnerEmail != "alice@x.com" {
		t.Errorf("OwnerEmail = %q, want %q", got.OwnerEmail, "alice@x.com")
	}
}

// ownerEmail未指定の場合に認証済みユーザーのメールアドレスが採用されることを検証
func TestService_Create_DefaultsOwnerEmail(t *testing.T) {
	repo := &mockHouseRepo{}
	svc := newTestService(repo)

	got, err := svc.Create(context.Background(), ownerIdentity(), &model.House{HouseName: "A"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.OwnerEmail != "alice@x.com" {
		t.Errorf("OwnerEmail = %q, want authenticated email", got.OwnerEmail)
	}
}

// 他人のメールアドレスをownerEmailに指定した登録がForbiddenになることを検証
func TestService_Create_OwnerEmailMismatch(t *testing.T) {
	svc := newTestService(&mockHouseRepo{})

	input := &model.House{OwnerEmail: "mallory@x.com", HouseName: "A"}
	_, err := svc.Create(context.Background(), ownerIdentity(), input)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeForbidden {
		t.Errorf("Create() error = %v, want FORBIDDEN", err)
	}
}

// 説明文がサニタイズされて保存されることを検証
func TestService_Create_SanitizesDescription(t *testing.T) {
	var created *model.House
	repo := &mockHouseRepo{
		createFn: func(ctx context.Context, house *model.House) error {
			created = house
			return nil
		},
	}
	svc := newTestService(repo)

	input := &model.House{
		HouseName:   "A",
		Description: `<p>great view</p><script>alert("xss")</script>`,
	}
	if _, err := svc.Create(context.Background(), ownerIdentity(), input); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if strings.Contains(created.Description, "<script") {
		t.Errorf("Description = %q, script tag should be removed", created.Description)
	}
	if !strings.Contains(created.Description, "great view") {
		t.Errorf("Description = %q, safe content should survive", created.Description)
	}
}

// --- List テスト ---

// 検索語なしで全件、検索語ありで検索結果が返ることを検証
func TestService_List(t *testing.T) {
	all := []*model.House{{ID: "h1"}, {ID: "h2"}}
	matched := []*model.House{{ID: "h1"}}

	repo := &mockHouseRepo{
		listFn: func(ctx context.Context) ([]*model.House, error) {
			return all, nil
		},
		searchFn: func(ctx context.Context, query string) ([]*model.House, error) {
			if query != "sunny" {
				t.Errorf("query = %q, want %q", query, "sunny")
			}
			return matched, nil
		},
	}
	svc := newTestService(repo)

	got, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("List(\"\") returned %d houses, want 2", len(got))
	}

	got, err = svc.List(context.Background(), "  sunny ")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("List(\"sunny\") returned %d houses, want 1", len(got))
	}
}

// ownerEmailが空の場合に空リストが返ることを検証
func TestService_ListByOwner_EmptyEmail(t *testing.T) {
	repo := &mockHouseRepo{
		listByOwnerFn: func(ctx context.Context, ownerEmail string) ([]*model.House, error) {
			t.Error("repository should not be called for empty ownerEmail")
			return nil, nil
		},
	}
	svc := newTestService(repo)

	got, err := svc.ListByOwner(context.Background(), "")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListByOwner(\"\") = %v, want empty slice", got)
	}
}

// --- Update テスト ---

// オーナー本人による更新が成功し、オーナーと作成日時が保持されることを検証
func TestService_Update_Success(t *testing.T) {
	existing := &model.House{
		ID:         "h1",
		OwnerEmail: "alice@x.com",
		HouseName:  "Old Name",
	}
	var updated *model.House
	repo := &mockHouseRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.House, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, house *model.House) error {
			updated = house
			return nil
		},
	}
	svc := newTestService(repo)

	input := &model.House{HouseName: "New Name", OwnerEmail: "mallory@x.com"}
	got, err := svc.Update(context.Background(), ownerIdentity(), "h1", input)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated == nil {
		t.Fatal("expected house to be updated")
	}
	if got.HouseName != "New Name" {
		t.Errorf("HouseName = %q, want %q", got.HouseName, "New Name")
	}
	// ペイロードでオーナーを付け替えられないこと
	if got.OwnerEmail != "alice@x.com" {
		t.Errorf("OwnerEmail = %q, owner must not change on update", got.OwnerEmail)
	}
}

// 他人の物件の更新がForbiddenになることを検証
func TestService_Update_NotOwner(t *testing.T) {
	repo := &mockHouseRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.House, error) {
			return &model.House{ID: id, OwnerEmail: "bob@x.com"}, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), ownerIdentity(), "h1", &model.House{HouseName: "X"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeForbidden {
		t.Errorf("Update() error = %v, want FORBIDDEN", err)
	}
}

// 存在しない物件の更新がHouseNotFoundになることを検証
func TestService_Update_NotFound(t *testing.T) {
	svc := newTestService(&mockHouseRepo{})

	_, err := svc.Update(context.Background(), ownerIdentity(), "missing", &model.House{HouseName: "X"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeHouseNotFound {
		t.Errorf("Update() error = %v, want HOUSE_NOT_FOUND", err)
	}
}

// --- Delete テスト ---

// オーナー本人による削除が成功することを検証
func TestService_Delete_Success(t *testing.T) {
	deleteCalled := false
	repo := &mockHouseRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.House, error) {
			return &model.House{ID: id, OwnerEmail: "alice@x.com"}, nil
		},
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			deleteCalled = true
			return true, nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Delete(context.Background(), ownerIdentity(), "h1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleteCalled {
		t.Error("expected repository Delete to be called")
	}
}

// 他人の物件の削除がForbiddenになることを検証
func TestService_Delete_NotOwner(t *testing.T) {
	repo := &mockHouseRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.House, error) {
			return &model.House{ID: id, OwnerEmail: "bob@x.com"}, nil
		},
	}
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), ownerIdentity(), "h1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeForbidden {
		t.Errorf("Delete() error = %v, want FORBIDDEN", err)
	}
}

// 存在しないIDの削除がクラッシュせずHouseNotFoundを返すことを検証
func TestService_Delete_NotFound(t *testing.T) {
	svc := newTestService(&mockHouseRepo{})

	err := svc.Delete(context.Background(), ownerIdentity(), "missing")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeHouseNotFound {
		t.Errorf("Delete() error = %v, want HOUSE_NOT_FOUND", err)
	}
}
