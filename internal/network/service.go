// Package network は友達リクエスト台帳と友達グラフのドメインロジックを提供する。
//
// 保留中リクエストは (recipient, requester) の有向エッジ、
// 成立済み友達関係は相互2行で実体化された対称関係として扱う。
// 承認・切断などの複数行操作はリポジトリ層のトランザクションで
// 単一の原子的操作として実行される。
package network

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/campuslink/internal/model"
	"github.com/hitoshi/campuslink/internal/repository"
)

// NetworkRecorder は友達リクエスト関連のメトリクス記録インターフェース。
type NetworkRecorder interface {
	RecordFriendRequestSent()
	RecordFriendRequestAccepted()
	RecordFriendRequestRejected()
}

// Service は友達リクエスト台帳と友達グラフのサービス層。
type Service struct {
	accountRepo    repository.AccountRepository
	requestRepo    repository.FriendRequestRepository
	friendshipRepo repository.FriendshipRepository
	recorder       NetworkRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnilでもよい（メトリクス記録をスキップする）。
func NewService(
	accountRepo repository.AccountRepository,
	requestRepo repository.FriendRequestRepository,
	friendshipRepo repository.FriendshipRepository,
	recorder NetworkRecorder,
) *Service {
	return &Service{
		accountRepo:    accountRepo,
		requestRepo:    requestRepo,
		friendshipRepo: friendshipRepo,
		recorder:       recorder,
	}
}

// SendRequest はrequesterからrecipientへの友達リクエストを送信する。
// 宛先が存在しない場合はACCOUNT_NOT_FOUND、
// 同じ順序ペアのリクエストが既に保留中の場合はDUPLICATE_FRIEND_REQUEST、
// 既に友達である場合はALREADY_FRIENDSを返す。
func (s *Service) SendRequest(ctx context.Context, requester, recipient string) error {
	account, err := s.accountRepo.FindByUsername(ctx, recipient)
	if err != nil {
		return fmt.Errorf("宛先アカウントの取得に失敗しました: %w", err)
	}
	if account == nil {
		return model.NewAccountNotFoundError(recipient)
	}

	friends, err := s.friendshipRepo.Exists(ctx, requester, recipient)
	if err != nil {
		return fmt.Errorf("友達関係の確認に失敗しました: %w", err)
	}
	if friends {
		return model.NewAlreadyFriendsError(recipient)
	}

	pending, err := s.requestRepo.Exists(ctx, recipient, requester)
	if err != nil {
		return fmt.Errorf("保留中リクエストの確認に失敗しました: %w", err)
	}
	if pending {
		return model.NewDuplicateFriendRequestError(recipient)
	}

	if err := s.requestRepo.Create(ctx, recipient, requester); err != nil {
		return fmt.Errorf("友達リクエストの作成に失敗しました: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordFriendRequestSent()
	}

	slog.Info("友達リクエストを送信しました",
		slog.String("requester", requester),
		slog.String("recipient", recipient),
	)

	return nil
}

// PendingFor は指定ユーザー宛ての保留中リクエスト送信者一覧を返す。
// 保留中リクエストがない場合は空スライスを返す。
func (s *Service) PendingFor(ctx context.Context, recipient string) ([]string, error) {
	requesters, err := s.requestRepo.ListRequestersByRecipient(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("保留中リクエストの取得に失敗しました: %w", err)
	}
	return requesters, nil
}

// Matches は保留中エッジ (recipient, requester) が存在するかを返す。
// 呼び出し側が同じリクエストを二重に提示しないための確認に使う。
func (s *Service) Matches(ctx context.Context, requester, recipient string) (bool, error) {
	exists, err := s.requestRepo.Exists(ctx, recipient, requester)
	if err != nil {
		return false, fmt.Errorf("保留中リクエストの確認に失敗しました: %w", err)
	}
	return exists, nil
}

// Accept は保留中リクエストを承認し、友達関係を成立させる。
// 保留中エッジの削除と相互2行の挿入は単一トランザクションで実行され、
// 途中状態が呼び出し側から観測されることはない。
// 対象のリクエストが存在しない場合はFRIEND_REQUEST_NOT_FOUNDを返す。
// 相互にリクエストを送り合った後に片方が承認済みの場合、残った逆向きの
// 保留中エッジは削除してALREADY_FRIENDSを返す。
func (s *Service) Accept(ctx context.Context, recipient, requester string) error {
	pending, err := s.requestRepo.Exists(ctx, recipient, requester)
	if err != nil {
		return fmt.Errorf("保留中リクエストの確認に失敗しました: %w", err)
	}
	if !pending {
		return model.NewFriendRequestNotFoundError(requester)
	}

	friends, err := s.friendshipRepo.Exists(ctx, recipient, requester)
	if err != nil {
		return fmt.Errorf("友達関係の確認に失敗しました: %w", err)
	}
	if friends {
		if err := s.requestRepo.Delete(ctx, recipient, requester); err != nil {
			return fmt.Errorf("残留した友達リクエストの削除に失敗しました: %w", err)
		}
		return model.NewAlreadyFriendsError(requester)
	}

	if err := s.friendshipRepo.ConnectFromRequest(ctx, recipient, requester); err != nil {
		return fmt.Errorf("友達関係の成立に失敗しました: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordFriendRequestAccepted()
	}

	slog.Info("友達リクエストを承認しました",
		slog.String("recipient", recipient),
		slog.String("requester", requester),
	)

	return nil
}

// Reject は保留中リクエストを拒否する。友達関係への副作用はない。
// 対象のリクエストが存在しない場合はFRIEND_REQUEST_NOT_FOUNDを返す。
func (s *Service) Reject(ctx context.Context, recipient, requester string) error {
	pending, err := s.requestRepo.Exists(ctx, recipient, requester)
	if err != nil {
		return fmt.Errorf("保留中リクエストの確認に失敗しました: %w", err)
	}
	if !pending {
		return model.NewFriendRequestNotFoundError(requester)
	}

	if err := s.requestRepo.Delete(ctx, recipient, requester); err != nil {
		return fmt.Errorf("友達リクエストの削除に失敗しました: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordFriendRequestRejected()
	}

	slog.Info("友達リクエストを拒否しました",
		slog.String("recipient", recipient),
		slog.String("requester", requester),
	)

	return nil
}

// Disconnect は友達関係を解除する。相互2行は単一トランザクションで削除される。
// 友達関係が存在しない場合はFRIENDSHIP_NOT_FOUNDを返す。
func (s *Service) Disconnect(ctx context.Context, userA, userB string) error {
	friends, err := s.friendshipRepo.Exists(ctx, userA, userB)
	if err != nil {
		return fmt.Errorf("友達関係の確認に失敗しました: %w", err)
	}
	if !friends {
		return model.NewFriendshipNotFoundError(userB)
	}

	if err := s.friendshipRepo.Disconnect(ctx, userA, userB); err != nil {
		return fmt.Errorf("友達関係の解除に失敗しました: %w", err)
	}

	slog.Info("友達関係を解除しました",
		slog.String("user_a", userA),
		slog.String("user_b", userB),
	)

	return nil
}

// FriendsOf は指定ユーザーの友達のユーザー名一覧を返す。
// 友達がいない場合は空スライスを返す（エラーとは区別される）。
func (s *Service) FriendsOf(ctx context.Context, username string) ([]string, error) {
	friends, err := s.friendshipRepo.ListFriends(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("友達一覧の取得に失敗しました: %w", err)
	}
	return friends, nil
}

// AreFriends は2ユーザーが友達関係にあるかを返す。
// 対称関係のため、どちらの向きで確認しても結果は一致する。
func (s *Service) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	friends, err := s.friendshipRepo.Exists(ctx, userA, userB)
	if err != nil {
		return false, fmt.Errorf("友達関係の確認に失敗しました: %w", err)
	}
	return friends, nil
}
