// Package account はアカウントディレクトリのドメインロジックを提供する。
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/campuslink/internal/model"
	"github.com/hitoshi/campuslink/internal/repository"
	"github.com/hitoshi/campuslink/internal/validation"
)

// SignupRecorder はサインアップ件数のメトリクス記録インターフェース。
type SignupRecorder interface {
	RecordSignupSuccess()
	RecordSignupRefused(reason string)
}

// Config はアカウントサービスの設定。
type Config struct {
	SignupLimit int // 登録可能なアカウント数の上限
}

// Service はアカウントディレクトリのサービス層。
// 登録・退会・認証・存在確認・件数取得を提供する。
type Service struct {
	accountRepo    repository.AccountRepository
	sessionRepo    repository.SessionRepository
	requestRepo    repository.FriendRequestRepository
	experienceRepo repository.ExperienceRepository
	recorder       SignupRecorder
	config         Config
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnilでもよい（メトリクス記録をスキップする）。
func NewService(
	accountRepo repository.AccountRepository,
	sessionRepo repository.SessionRepository,
	requestRepo repository.FriendRequestRepository,
	experienceRepo repository.ExperienceRepository,
	recorder SignupRecorder,
	config Config,
) *Service {
	return &Service{
		accountRepo:    accountRepo,
		sessionRepo:    sessionRepo,
		requestRepo:    requestRepo,
		experienceRepo: experienceRepo,
		recorder:       recorder,
		config:         config,
	}
}

// SignUpInput はアカウント登録の入力。
type SignUpInput struct {
	Username   string
	Password   string
	FirstName  string
	LastName   string
	University string
	Major      string
}

// SignUp はアカウントを登録する。
// 登録数が上限に達している場合はSIGNUP_LIMIT、
// ユーザー名が既に存在する場合はUSERNAME_TAKENを返す。
// 失敗時に既存データを変更することはない。
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (*model.Account, error) {
	// 1. 登録数の上限確認（入会制御）
	count, err := s.accountRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("アカウント数の取得に失敗しました: %w", err)
	}
	if count >= s.config.SignupLimit {
		if s.recorder != nil {
			s.recorder.RecordSignupRefused("signup_limit")
		}
		return nil, model.NewSignupLimitError(s.config.SignupLimit)
	}

	// 2. ユーザー名の一意性確認
	existing, err := s.accountRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("アカウントの取得に失敗しました: %w", err)
	}
	if existing != nil {
		if s.recorder != nil {
			s.recorder.RecordSignupRefused("username_taken")
		}
		return nil, model.NewUsernameTakenError(input.Username)
	}

	// 3. パスワードポリシーの検証
	if reason, ok := validation.ValidatePassword(input.Password); !ok {
		if s.recorder != nil {
			s.recorder.RecordSignupRefused("weak_password")
		}
		return nil, model.NewWeakPasswordError(reason)
	}

	account := &model.Account{
		Username:   input.Username,
		Secret:     input.Password,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		University: input.University,
		Major:      input.Major,
		CreatedAt:  time.Now(),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("アカウントの作成に失敗しました: %w", err)
	}

	if s.recorder != nil {
		s.recorder.RecordSignupSuccess()
	}

	slog.Info("アカウントを登録しました",
		slog.String("username", account.Username),
	)

	return account, nil
}

// Withdraw はアカウントの退会処理を実行する。
// 削除順序: sessions → pending requests → experience → account。
// 退会したユーザー宛て・発の保留中リクエストと職歴は残さない。
// プロフィール・学歴は個別の削除操作に委ねる。
func (s *Service) Withdraw(ctx context.Context, username string) error {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("アカウントの取得に失敗しました: %w", err)
	}
	if account == nil {
		return model.NewAccountNotFoundError(username)
	}

	slog.Info("退会処理を開始します",
		slog.String("username", username),
	)

	// 1. セッションを削除
	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteByUsername(ctx, username); err != nil {
			return fmt.Errorf("セッションの削除に失敗しました: %w", err)
		}
	}

	// 2. 保留中の友達リクエスト（双方向）を削除
	if s.requestRepo != nil {
		if err := s.requestRepo.DeleteByUsername(ctx, username); err != nil {
			return fmt.Errorf("保留中リクエストの削除に失敗しました: %w", err)
		}
	}

	// 3. 職歴を削除
	if s.experienceRepo != nil {
		if err := s.experienceRepo.DeleteByUsername(ctx, username); err != nil {
			return fmt.Errorf("職歴の削除に失敗しました: %w", err)
		}
	}

	// 4. アカウントを削除
	if err := s.accountRepo.DeleteByUsername(ctx, username); err != nil {
		return fmt.Errorf("アカウントの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("username", username),
	)

	return nil
}

// Authenticate はユーザー名とパスワードの完全一致を確認する。
func (s *Service) Authenticate(ctx context.Context, username, secret string) (bool, error) {
	account, err := s.accountRepo.FindByCredentials(ctx, username, secret)
	if err != nil {
		return false, fmt.Errorf("認証情報の確認に失敗しました: %w", err)
	}
	return account != nil, nil
}

// Exists は指定ユーザー名のアカウントが存在するかを返す。
func (s *Service) Exists(ctx context.Context, username string) (bool, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("アカウントの取得に失敗しました: %w", err)
	}
	return account != nil, nil
}

// Count は登録済みアカウント数を返す。
func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.accountRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("アカウント数の取得に失敗しました: %w", err)
	}
	return count, nil
}
