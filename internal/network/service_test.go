package network

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/campuslink/internal/model"
)

// --- モック ---

type mockAccountRepo struct {
	findByUsernameFn func(ctx context.Context, username string) (*model.Account, error)
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return &model.Account{Username: username}, nil
}
func (m *mockAccountRepo) Create(ctx context.Context, account *model.Account) error { return nil }
func (m *mockAccountRepo) DeleteByUsername(ctx context.Context, username string) error {
	return nil
}
func (m *mockAccountRepo) FindByCredentials(ctx context.Context, username, secret string) (*model.Account, error) {
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

type mockRequestRepo struct {
	createFn           func(ctx context.Context, recipient, requester string) error
	existsFn           func(ctx context.Context, recipient, requester string) (bool, error)
	listRequestersFn   func(ctx context.Context, recipient string) ([]string, error)
	deleteFn           func(ctx context.Context, recipient, requester string) error
	deleteByUsernameFn func(ctx context.Context, username string) error
}

func (m *mockRequestRepo) Create(ctx context.Context, recipient, requester string) error {
	if m.createFn != nil {
		return m.createFn(ctx, recipient, requester)
	}
	return nil
}
func (m *mockRequestRepo) Exists(ctx context.Context, recipient, requester string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, recipient, requester)
	}
	return false, nil
}
func (m *mockRequestRepo) ListRequestersByRecipient(ctx context.Context, recipient string) ([]string, error) {
	if m.listRequestersFn != nil {
		return m.listRequestersFn(ctx, recipient)
	}
	return []string{}, nil
}
func (m *mockRequestRepo) Delete(ctx context.Context, recipient, requester string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, recipient, requester)
	}
	return nil
}
func (m *mockRequestRepo) DeleteByUsername(ctx context.Context, username string) error {
	if m.deleteByUsernameFn != nil {
		return m.deleteByUsernameFn(ctx, username)
	}
	return nil
}

type mockFriendshipRepo struct {
	connectFromRequestFn func(ctx context.Context, recipient, requester string) error
	disconnectFn         func(ctx context.Context, userA, userB string) error
	listFriendsFn        func(ctx context.Context, username string) ([]string, error)
	existsFn             func(ctx context.Context, userA, userB string) (bool, error)
}

func (m *mockFriendshipRepo) ConnectFromRequest(ctx context.Context, recipient, requester string) error {
	if m.connectFromRequestFn != nil {
		return m.connectFromRequestFn(ctx, recipient, requester)
	}
	return nil
}
func (m *mockFriendshipRepo) Disconnect(ctx context.Context, userA, userB string) error {
	if m.disconnectFn != nil {
		return m.disconnectFn(ctx, userA, userB)
	}
	return nil
}
func (m *mockFriendshipRepo) ListFriends(ctx context.Context, username string) ([]string, error) {
	if m.listFriendsFn != nil {
		return m.listFriendsFn(ctx, username)
	}
	return []string{}, nil
}
func (m *mockFriendshipRepo) Exists(ctx context.Context, userA, userB string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userA, userB)
	}
	return false, nil
}

// mockNetworkRecorder はNetworkRecorderのモック実装。
type mockNetworkRecorder struct {
	sent     int
	accepted int
	rejected int
}

func (m *mockNetworkRecorder) RecordFriendRequestSent()     { m.sent++ }
func (m *mockNetworkRecorder) RecordFriendRequestAccepted() { m.accepted++ }
func (m *mockNetworkRecorder) RecordFriendRequestRejected() { m.rejected++ }

// --- SendRequestテスト ---

func TestService_SendRequest_Success(t *testing.T) {
	var createdRecipient, createdRequester string
	requestRepo := &mockRequestRepo{
		createFn: func(ctx context.Context, recipient, requester string) error {
			createdRecipient = recipient
			createdRequester = requester
			return nil
		},
	}
	recorder := &mockNetworkRecorder{}

	svc := NewService(&mockAccountRepo{}, requestRepo, &mockFriendshipRepo{}, recorder)

	if err := svc.SendRequest(context.Background(), "taro123", "hanako9"); err != nil {
		t.Fatalf("SendRequest returned error: %v", err)
	}

	// エッジは (recipient, requester) の向きで保存される
	if createdRecipient != "hanako9" || createdRequester != "taro123" {
		t.Errorf("edge = (%q, %q), want (hanako9, taro123)", createdRecipient, createdRequester)
	}
	if recorder.sent != 1 {
		t.Errorf("sent = %d, want 1", recorder.sent)
	}
}

func TestService_SendRequest_RecipientNotFound(t *testing.T) {
	accountRepo := &mockAccountRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.Account, error) {
			return nil, nil
		},
	}

	svc := NewService(accountRepo, &mockRequestRepo{}, &mockFriendshipRepo{}, nil)

	err := svc.SendRequest(context.Background(), "taro123", "ghost99")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeAccountNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeAccountNotFound)
	}
}

func TestService_SendRequest_Duplicate(t *testing.T) {
	requestRepo := &mockRequestRepo{
		existsFn: func(ctx context.Context, recipient, requester string) (bool, error) {
			return true, nil
		},
	}
	recorder := &mockNetworkRecorder{}

	svc := NewService(&mockAccountRepo{}, requestRepo, &mockFriendshipRepo{}, recorder)

	err := svc.SendRequest(context.Background(), "taro123", "hanako9")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateFriendRequest {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateFriendRequest)
	}
	if recorder.sent != 0 {
		t.Errorf("sent = %d, want 0", recorder.sent)
	}
}

func TestService_SendRequest_AlreadyFriends(t *testing.T) {
	friendshipRepo := &mockFriendshipRepo{
		existsFn: func(ctx context.Context, userA, userB string) (bool, error) {
			return true, nil
		},
	}

	svc := NewService(&mockAccountRepo{}, &mockRequestRepo{}, friendshipRepo, nil)

	err := svc.SendRequest(context.Background(), "taro123", "hanako9")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeAlreadyFriends {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeAlreadyFriends)
	}
}

// 逆向きのリクエストは独立した保留中エッジとして扱われる。
func TestService_SendRequest_ReverseDirectionIsIndependent(t *testing.T) {
	// (hanako9, taro123) のみ保留中。逆向き (taro123, hanako9) は保留なし。
	requestRepo := &mockRequestRepo{
		existsFn: func(ctx context.Context, recipient, requester string) (bool, error) {
			return recipient == "hanako9" && requester == "taro123", nil
		},
	}

	svc := NewService(&mockAccountRepo{}, requestRepo, &mockFriendshipRepo{}, nil)

	// hanako9 → taro123 は重複にならない
	if err := svc.SendRequest(context.Background(), "hanako9", "taro123"); err != nil {
		t.Fatalf("reverse direction request returned error: %v", err)
	}
}

// --- PendingFor / Matchesテスト ---

func TestService_PendingFor(t *testing.T) {
	requestRepo := &mockRequestRepo{
		listRequestersFn: func(ctx context.Context, recipient string) ([]string, error) {
			return []string{"taro123", "jiro22"}, nil
		},
	}

	svc := NewService(&mockAccountRepo{}, requestRepo, &mockFriendshipRepo{}, nil)

	requesters, err := svc.PendingFor(context.Background(), "hanako9")
	if err != nil {
		t.Fatalf("PendingFor returned error: %v", err)
	}
	if len(requesters) != 2 {
		t.Fatalf("requesters length = %d, want 2", len(requesters))
	}
}

func TestService_Matches(t *testing.T) {
	requestRepo := &mockRequestRepo{
		existsFn: func(ctx context.Context, recipient, requester string) (bool, error) {
			return recipient == "hanako9" && requester == "taro123", nil
		},
	}

	svc := NewService(&mockAccountRepo{}, requestRepo, &mockFriendshipRepo{}, nil)

	ok, err := svc.Matches(context.Background(), "taro123", "hanako9")
	if err != nil {
		t.Fatalf("Matches returned error: %v", err)
	}
	if !ok {
		t.Error("expected pending edge to match")
	}

	ok, err = svc.Matches(context.Background(), "hanako9", "taro123")
	if err != nil {
		t.Fatalf("Matches returned error: %v", err)
	}
	if ok {
		t.Error("reverse direction should not match")
	}
}

// --- Acceptテスト ---

func TestService_Accept_Success(t *testing.T) {
	connectCalled := false
	requestRepo := &mockRequestRepo{
		existsFn: func(ctx context.Context, recipient, requester string) (bool, error) {
			return true, nil
		},
	}
	friendshipRepo := &mockFriendshipRepo{
		connectFromRequestFn: func(ctx context.Context, recipient, requester string) error {
			connectCalled = true
			if recipient != "hanako9" || requester != "taro123" {
				t.Errorf("pair = (%q, %q), want (hanako9, taro123)", recipient, requester)
			}
			return nil
		},
	}
	recorder := &mockNetworkRecorder{}

	svc := NewService(&mockAccountRepo{}, requestRepo, friendshipRepo, recorder)

	if err := svc.Accept(context.Background(), "hanako9", "taro123"); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if !connectCalled {
		t.Error("expected ConnectFromRequest to be called")
	}
	if recorder.accepted != 1 {
		t.Errorf("accepted = %d, want 1", recorder.accepted)
	}
}

func TestService_Accept_RequestNotFound(t *testing.T) {
	svc := NewService(&mockAccountRepo{}, &mockRequestRepo{}, &mockFriendshipRepo{}, nil)

	err := svc.Accept(context.Background(), "hanako9", "ghost99")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeFriendRequestNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeFriendRequestNotFound)
	}
}

// 相互にリクエストを送り合い片方の承認で友達関係が成立した後、
// 逆向きの保留中エッジを承認しようとした場合の挙動を検証する。
func TestService_Accept_MutualRequests_SecondAcceptAlreadyFriends(t *testing.T) {
	var deletedRecipient, deletedRequester string
	requestRepo := &mockRequestRepo{
		existsFn: func(ctx context.Context, recipient, requester string) (bool, error) {
			// 逆向きのエッジ (taro123, hanako9) がまだ残っている
			return recipient == "taro123" && requester == "hanako9", nil
		},
		deleteFn: func(ctx context.Context, recipient, requester string) error {
			deletedRecipient = recipient
			deletedRequester = requester
			return nil
		},
	}
	connectCalled := false
	friendshipRepo := &mockFriendshipRepo{
		existsFn: func(ctx context.Context, userA, userB string) (bool, error) {
			// 最初の承認で友達関係は成立済み
			return true, nil
		},
		connectFromRequestFn: func(ctx context.Context, recipient, requester string) error {
			connectCalled = true
			return nil
		},
	}
	recorder := &mockNetworkRecorder{}

	svc := NewService(&mockAccountRepo{}, requestRepo, friendshipRepo, recorder)

	err := svc.Accept(context.Background(), "taro123", "hanako9")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeAlreadyFriends {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeAlreadyFriends)
	}
	// 残留したエッジは掃除される
	if deletedRecipient != "taro123" || deletedRequester != "hanako9" {
		t.Errorf("deleted edge = (%q, %q), want (taro123, hanako9)", deletedRecipient, deletedRequester)
	}
	if connectCalled {
		t.Error("ConnectFromRequest must not be called when already friends")
	}
	if recorder.accepted != 0 {
		t.Errorf("accepted = %d, want 0", recorder.accepted)
	}
}

func TestService_Accept_TransactionFailure(t *testing.T) {
	requestRepo := &mockRequestRepo{
		existsFn: func(ctx context.Context, recipient, requester string) (bool, error) {
			return true, nil
		},
	}
	friendshipRepo := &mockFriendshipRepo{
		connectFromRequestFn: func(ctx context.Context, recipient, requester string) error {
			return errors.New("tx failed")
		},
	}

	svc := NewService(&mockAccountRepo{}, requestRepo, friendshipRepo, nil)

	if err := svc.Accept(context.Background(), "hanako9", "taro123"); err == nil {
		t.Fatal("expected error when transaction fails")
	}
}

// --- Rejectテスト ---

func TestService_Reject_Success(t *testing.T) {
	deleteCalled := false
	connectCalled := false
	requestRepo := &mockRequestRepo{
		existsFn: func(ctx context.Context, recipient, requester string) (bool, error) {
			return true, nil
		},
		deleteFn: func(ctx context.Context, recipient, requester string) error {
			deleteCalled = true
			return nil
		},
	}
	friendshipRepo := &mockFriendshipRepo{
		connectFromRequestFn: func(ctx context.Context, recipient, requester string) error {
			connectCalled = true
			return nil
		},
	}
	recorder := &mockNetworkRecorder{}

	svc := NewService(&mockAccountRepo{}, requestRepo, friendshipRepo, recorder)

	if err := svc.Reject(context.Background(), "hanako9", "taro123"); err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if !deleteCalled {
		t.Error("expected request Delete to be called")
	}
	if connectCalled {
		t.Error("Reject must not create a friendship")
	}
	if recorder.rejected != 1 {
		t.Errorf("rejected = %d, want 1", recorder.rejected)
	}
}

func TestService_Reject_RequestNotFound(t *testing.T) {
	svc := NewService(&mockAccountRepo{}, &mockRequestRepo{}, &mockFriendshipRepo{}, nil)

	err := svc.Reject(context.Background(), "hanako9", "ghost99")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeFriendRequestNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeFriendRequestNotFound)
	}
}

// --- Disconnect / FriendsOf / AreFriendsテスト ---

func TestService_Disconnect_Success(t *testing.T) {
	disconnectCalled := false
	friendshipRepo := &mockFriendshipRepo{
		existsFn: func(ctx context.Context, userA, userB string) (bool, error) {
			return true, nil
		},
		disconnectFn: func(ctx context.Context, userA, userB string) error {
			disconnectCalled = true
			return nil
		},
	}

	svc := NewService(&mockAccountRepo{}, &mockRequestRepo{}, friendshipRepo, nil)

	if err := svc.Disconnect(context.Background(), "taro123", "hanako9"); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}
	if !disconnectCalled {
		t.Error("expected Disconnect to be called")
	}
}

func TestService_Disconnect_FriendshipNotFound(t *testing.T) {
	svc := NewService(&mockAccountRepo{}, &mockRequestRepo{}, &mockFriendshipRepo{}, nil)

	err := svc.Disconnect(context.Background(), "taro123", "ghost99")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeFriendshipNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeFriendshipNotFound)
	}
}

func TestService_FriendsOf_Empty(t *testing.T) {
	svc := NewService(&mockAccountRepo{}, &mockRequestRepo{}, &mockFriendshipRepo{}, nil)

	friends, err := svc.FriendsOf(context.Background(), "taro123")
	if err != nil {
		t.Fatalf("FriendsOf returned error: %v", err)
	}
	if friends == nil {
		t.Error("expected empty slice, not nil")
	}
	if len(friends) != 0 {
		t.Errorf("friends length = %d, want 0", len(friends))
	}
}

// 対称関係のため、どちらの向きで確認しても結果は一致する。
func TestService_AreFriends_SymmetricView(t *testing.T) {
	pair := map[string]bool{
		"taro123:hanako9": true,
		"hanako9:taro123": true,
	}
	friendshipRepo := &mockFriendshipRepo{
		existsFn: func(ctx context.Context, userA, userB string) (bool, error) {
			return pair[userA+":"+userB], nil
		},
	}

	svc := NewService(&mockAccountRepo{}, &mockRequestRepo{}, friendshipRepo, nil)

	ab, err := svc.AreFriends(context.Background(), "taro123", "hanako9")
	if err != nil {
		t.Fatalf("AreFriends returned error: %v", err)
	}
	ba, err := svc.AreFriends(context.Background(), "hanako9", "taro123")
	if err != nil {
		t.Fatalf("AreFriends returned error: %v", err)
	}
	if !ab || !ba {
		t.Errorf("AreFriends = (%v, %v), want (true, true) in both directions", ab, ba)
	}
}
