// Package job は求人掲示板のドメインロジックを提供する。
package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/campuslink/internal/model"
	"github.com/hitoshi/campuslink/internal/repository"
)

// TextSanitizer は自由入力テキストのサニタイズインターフェース。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// Config は求人サービスの設定。
type Config struct {
	JobLimit int // 掲載可能な求人数の上限
}

// Service は求人掲示板のサービス層。掲載・一覧・削除を提供する。
type Service struct {
	jobRepo     repository.JobRepository
	accountRepo repository.AccountRepository
	sanitizer   TextSanitizer
	config      Config
}

// NewService はServiceの新しいインスタンスを生成する。
// sanitizerはnilでもよい。
func NewService(
	jobRepo repository.JobRepository,
	accountRepo repository.AccountRepository,
	sanitizer TextSanitizer,
	config Config,
) *Service {
	return &Service{
		jobRepo:     jobRepo,
		accountRepo: accountRepo,
		sanitizer:   sanitizer,
		config:      config,
	}
}

// PostInput は求人掲載の入力。
type PostInput struct {
	Title       string
	Description string
	Employer    string
	Location    string
	Salary      string
}

// Post は指定ユーザー名義で求人を掲載する。
// 掲載数が上限に達している場合はJOB_LIMIT、
// 掲載者のアカウントが存在しない場合はACCOUNT_NOT_FOUNDを返す。
func (s *Service) Post(ctx context.Context, username string, input PostInput) (*model.Job, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("アカウントの取得に失敗しました: %w", err)
	}
	if account == nil {
		return nil, model.NewAccountNotFoundError(username)
	}

	count, err := s.jobRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("求人数の取得に失敗しました: %w", err)
	}
	if count >= s.config.JobLimit {
		return nil, model.NewJobLimitError(s.config.JobLimit)
	}

	job := &model.Job{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: s.sanitize(input.Description),
		Employer:    input.Employer,
		Location:    input.Location,
		Salary:      input.Salary,
		PosterFirst: account.FirstName,
		PosterLast:  account.LastName,
		CreatedAt:   time.Now(),
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("求人の作成に失敗しました: %w", err)
	}

	slog.Info("求人を掲載しました",
		slog.String("job_id", job.ID),
		slog.String("username", username),
	)

	return job, nil
}

// List は掲載中の求人一覧を作成順で返す。該当なしは空スライス。
func (s *Service) List(ctx context.Context) ([]*model.Job, error) {
	jobs, err := s.jobRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("求人一覧の取得に失敗しました: %w", err)
	}
	return jobs, nil
}

// Delete は指定IDの求人を削除する。
// 対象が存在しない場合はJOB_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, id string) error {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	if job == nil {
		return model.NewJobNotFoundError(id)
	}

	if err := s.jobRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("求人の削除に失敗しました: %w", err)
	}

	slog.Info("求人を削除しました",
		slog.String("job_id", id),
	)

	return nil
}

// Count は掲載中の求人数を返す。
func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.jobRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("求人数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// sanitize はサニタイザが設定されている場合のみテキストを処理する。
func (s *Service) sanitize(raw string) string {
	if s.sanitizer == nil {
		return raw
	}
	return s.sanitizer.Sanitize(raw)
}
