package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/campuslink/internal/model"
)

// --- モック ---

type mockAccountRepo struct {
	findByUsernameFn func(ctx context.Context, username string) (*model.Account, error)
	findByCredsFn    func(ctx context.Context, username, secret string) (*model.Account, error)
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}
func (m *mockAccountRepo) Create(ctx context.Context, account *model.Account) error { return nil }
func (m *mockAccountRepo) DeleteByUsername(ctx context.Context, username string) error {
	return nil
}
func (m *mockAccountRepo) FindByCredentials(ctx context.Context, username, secret string) (*model.Account, error) {
	if m.findByCredsFn != nil {
		return m.findByCredsFn(ctx, username, secret)
	}
	return nil, nil
}
func (m *mockAccountRepo) Count(ctx context.Context) (int, error) { return 0, nil }
func (m *mockAccountRepo) ListUsernamesByLastName(ctx context.Context, lastName string) ([]string, error) {
	return nil, nil
}
func (m *mockAccountRepo) ListUsernamesByUniversity(ctx context.Context, university string) ([]string, error) {
	return nil, nil
}
func (m *mockAccountRepo) ListUsernamesByMajor(ctx context.Context, major string) ([]string, error) {
	return nil, nil
}
func (m *mockAccountRepo) ExistsByFullName(ctx context.Context, firstName, lastName string) (bool, error) {
	return false, nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}
func (m *mockSessionRepo) DeleteByUsername(ctx context.Context, username string) error {
	return nil
}

// --- Loginテスト ---

func TestService_Login_Success(t *testing.T) {
	var created *model.Session
	accountRepo := &mockAccountRepo{
		findByCredsFn: func(ctx context.Context, username, secret string) (*model.Account, error) {
			if username == "taro123" && secret == "Str0ng!pass" {
				return &model.Account{Username: username}, nil
			}
			return nil, nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			created = session
			return nil
		},
	}

	svc := NewService(accountRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	session, err := svc.Login(context.Background(), "taro123", "Str0ng!pass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Username != "taro123" {
		t.Errorf("username = %q, want %q", session.Username, "taro123")
	}
	if session.ID == "" {
		t.Error("expected non-empty session ID")
	}
	if created == nil {
		t.Fatal("expected session Create to be called")
	}

	// 有効期限はSessionMaxAge秒後に設定される
	wantExpiry := created.CreatedAt.Add(3600 * time.Second)
	if !created.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expiresAt = %v, want %v", created.ExpiresAt, wantExpiry)
	}
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	accountRepo := &mockAccountRepo{}

	svc := NewService(accountRepo, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 3600})

	_, err := svc.Login(context.Background(), "taro123", "wrong")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeLoginFailed {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeLoginFailed)
	}
}

// ユーザー名不存在とパスワード不一致を区別しない。
func TestService_Login_UnknownUser_SameErrorAsWrongPassword(t *testing.T) {
	accountRepo := &mockAccountRepo{}

	svc := NewService(accountRepo, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 3600})

	_, errUnknown := svc.Login(context.Background(), "ghost99", "whatever")
	_, errWrong := svc.Login(context.Background(), "taro123", "wrong")

	if errUnknown.Error() != errWrong.Error() {
		t.Errorf("errors differ: %q vs %q", errUnknown.Error(), errWrong.Error())
	}
}

func TestService_Login_SessionCreateFailure(t *testing.T) {
	accountRepo := &mockAccountRepo{
		findByCredsFn: func(ctx context.Context, username, secret string) (*model.Account, error) {
			return &model.Account{Username: username}, nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			return errors.New("insert failed")
		},
	}

	svc := NewService(accountRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	if _, err := svc.Login(context.Background(), "taro123", "Str0ng!pass"); err == nil {
		t.Fatal("expected error when session creation fails")
	}
}

// --- Logoutテスト ---

func TestService_Logout_DeletesSession(t *testing.T) {
	deleteCalled := false
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleteCalled = true
			if id != "session-abc" {
				t.Errorf("id = %q, want %q", id, "session-abc")
			}
			return nil
		},
	}

	svc := NewService(&mockAccountRepo{}, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	if err := svc.Logout(context.Background(), "session-abc"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if !deleteCalled {
		t.Error("expected DeleteByID to be called")
	}
}

func TestService_Logout_EmptySessionID_NoOp(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			t.Error("DeleteByID should not be called for empty session ID")
			return nil
		},
	}

	svc := NewService(&mockAccountRepo{}, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
}

// --- CurrentAccountテスト ---

func TestService_CurrentAccount_Success(t *testing.T) {
	accountRepo := &mockAccountRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.Account, error) {
			return &model.Account{Username: username, FirstName: "Taro"}, nil
		},
	}
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, Username: "taro123"}, nil
		},
	}

	svc := NewService(accountRepo, sessionRepo, ServiceConfig{SessionMaxAge: 3600})

	account, err := svc.CurrentAccount(context.Background(), "session-abc")
	if err != nil {
		t.Fatalf("CurrentAccount returned error: %v", err)
	}
	if account == nil || account.Username != "taro123" {
		t.Errorf("account = %+v, want username taro123", account)
	}
}

func TestService_CurrentAccount_InvalidSession_ReturnsNil(t *testing.T) {
	svc := NewService(&mockAccountRepo{}, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 3600})

	account, err := svc.CurrentAccount(context.Background(), "expired-session")
	if err != nil {
		t.Fatalf("CurrentAccount returned error: %v", err)
	}
	if account != nil {
		t.Errorf("account = %+v, want nil for invalid session", account)
	}
}
