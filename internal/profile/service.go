// Package profile はプロフィール・学歴・職歴を1つの論理エンティティとして
// 束ねるアグリゲータを提供する。
//
// upsertはマージ方式: 更新時に空で渡されたフィールドは保存済みの値を保持する。
// 職歴は件数上限付きで、上限到達は失敗ではなく個別のシグナルとして報告される。
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hitoshi/campuslink/internal/model"
	"github.com/hitoshi/campuslink/internal/repository"
)

// TextSanitizer は自由入力テキストのサニタイズインターフェース。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// ProfileRecorder はプロフィール操作のメトリクス記録インターフェース。
type ProfileRecorder interface {
	RecordProfileUpsert(created bool)
	RecordExperienceLimitHit()
}

// Config はプロフィールサービスの設定。
type Config struct {
	ExperienceLimit int // ユーザーごとの職歴エントリ数の上限
}

// Service はプロフィールアグリゲータのサービス層。
type Service struct {
	accountRepo    repository.AccountRepository
	profileRepo    repository.ProfileRepository
	educationRepo  repository.EducationRepository
	experienceRepo repository.ExperienceRepository
	sanitizer      TextSanitizer
	recorder       ProfileRecorder
	config         Config
}

// NewService はServiceの新しいインスタンスを生成する。
// sanitizerとrecorderはnilでもよい。
func NewService(
	accountRepo repository.AccountRepository,
	profileRepo repository.ProfileRepository,
	educationRepo repository.EducationRepository,
	experienceRepo repository.ExperienceRepository,
	sanitizer TextSanitizer,
	recorder ProfileRecorder,
	config Config,
) *Service {
	return &Service{
		accountRepo:    accountRepo,
		profileRepo:    profileRepo,
		educationRepo:  educationRepo,
		experienceRepo: experienceRepo,
		sanitizer:      sanitizer,
		recorder:       recorder,
		config:         config,
	}
}

// ExperienceInput は職歴エントリの入力。
type ExperienceInput struct {
	Title       string
	Employer    string
	DateStarted string
	DateEnded   string
	Location    string
	Description string
}

// UpsertInput はプロフィールupsertの入力。
// 空のフィールドは更新時に「変更しない」を意味する。
type UpsertInput struct {
	University    string
	Major         string
	Title         string
	AboutMe       string
	Degree        string
	YearsAttended string
	Experiences   []ExperienceInput
}

// UpsertResult はupsertの部分的成功を個別に報告する。
// 職歴上限への到達は全体の失敗に昇格しない（登録済みエントリはコミット済み）。
type UpsertResult struct {
	ProfileCreated         bool // true=作成、false=マージ更新
	EducationCreated       bool
	ExperiencesAdded       int
	ExperienceLimitReached bool
}

// View はアカウント・プロフィール・学歴・職歴を結合した読み取りビュー。
type View struct {
	Username    string
	Profile     *model.Profile
	Education   *model.Education
	Experiences []*model.Experience
}

// Upsert はプロフィール・学歴・職歴をまとめてcreate-or-merge保存する。
// 大学名と専攻は保存前にタイトルケースへ正規化される。
// アカウントが存在しない場合はACCOUNT_NOT_FOUNDを返す。
func (s *Service) Upsert(ctx context.Context, username string, input UpsertInput) (*UpsertResult, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("アカウントの取得に失敗しました: %w", err)
	}
	if account == nil {
		return nil, model.NewAccountNotFoundError(username)
	}

	// 正規化とサニタイズ
	input.University = titleCase(input.University)
	input.Major = titleCase(input.Major)
	input.AboutMe = s.sanitize(input.AboutMe)

	result := &UpsertResult{}
	now := time.Now()

	// 1. プロフィール本体のcreate-or-merge
	existing, err := s.profileRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}

	if existing == nil {
		created := &model.Profile{
			Username:   username,
			University: input.University,
			Major:      input.Major,
			Title:      input.Title,
			AboutMe:    input.AboutMe,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.profileRepo.Create(ctx, created); err != nil {
			return nil, fmt.Errorf("プロフィールの作成に失敗しました: %w", err)
		}
		result.ProfileCreated = true
	} else {
		// マージ更新: 空入力は保存済みの値を保持する
		merged := *existing
		mergeField(&merged.University, input.University)
		mergeField(&merged.Major, input.Major)
		mergeField(&merged.Title, input.Title)
		mergeField(&merged.AboutMe, input.AboutMe)
		merged.UpdatedAt = now

		if err := s.profileRepo.Update(ctx, &merged); err != nil {
			return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
		}
	}

	if s.recorder != nil {
		s.recorder.RecordProfileUpsert(result.ProfileCreated)
	}

	// 2. 学歴のcreate-or-merge（学校名はプロフィールの大学名と同期する）
	eduCreated, err := s.upsertEducation(ctx, username, input, now)
	if err != nil {
		return nil, err
	}
	result.EducationCreated = eduCreated

	// 3. 職歴の追加（上限まで。上限到達は個別シグナルとして報告し、処理は継続扱い）
	for _, exp := range input.Experiences {
		added, err := s.addExperienceWithinLimit(ctx, username, exp)
		if err != nil {
			return nil, err
		}
		if !added {
			result.ExperienceLimitReached = true
			break
		}
		result.ExperiencesAdded++
	}

	slog.Info("プロフィールを保存しました",
		slog.String("username", username),
		slog.Bool("created", result.ProfileCreated),
		slog.Int("experiences_added", result.ExperiencesAdded),
	)

	return result, nil
}

// AddExperience は職歴エントリを1件追加する。
// 上限に達している場合はEXPERIENCE_LIMITを返す（登録済みエントリはそのまま残る）。
func (s *Service) AddExperience(ctx context.Context, username string, input ExperienceInput) (*model.Experience, error) {
	added, err := s.addExperienceWithinLimit(ctx, username, input)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, model.NewExperienceLimitError(s.config.ExperienceLimit)
	}

	entries, err := s.experienceRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("職歴一覧の取得に失敗しました: %w", err)
	}
	return entries[len(entries)-1], nil
}

// Get はアカウント・プロフィール・学歴・職歴を結合した読み取りビューを返す。
// アカウントが存在しない場合はACCOUNT_NOT_FOUND、
// プロフィール未作成の場合はPROFILE_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, username string) (*View, error) {
	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("アカウントの取得に失敗しました: %w", err)
	}
	if account == nil {
		return nil, model.NewAccountNotFoundError(username)
	}

	prof, err := s.profileRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if prof == nil {
		return nil, model.NewProfileNotFoundError(username)
	}

	edu, err := s.educationRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("学歴の取得に失敗しました: %w", err)
	}

	experiences, err := s.experienceRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("職歴一覧の取得に失敗しました: %w", err)
	}

	return &View{
		Username:    account.Username,
		Profile:     prof,
		Education:   edu,
		Experiences: experiences,
	}, nil
}

// DeleteProfile は指定ユーザーのプロフィールを削除する。
// 学歴・職歴には影響しない（サブエンティティの削除は個別操作）。
func (s *Service) DeleteProfile(ctx context.Context, username string) error {
	if err := s.profileRepo.DeleteByUsername(ctx, username); err != nil {
		return fmt.Errorf("プロフィールの削除に失敗しました: %w", err)
	}
	return nil
}

// DeleteEducation は指定ユーザーの学歴を削除する。
func (s *Service) DeleteEducation(ctx context.Context, username string) error {
	if err := s.educationRepo.DeleteByUsername(ctx, username); err != nil {
		return fmt.Errorf("学歴の削除に失敗しました: %w", err)
	}
	return nil
}

// DeleteExperience は指定ユーザーの指定IDの職歴を削除する。
func (s *Service) DeleteExperience(ctx context.Context, username, id string) error {
	if err := s.experienceRepo.Delete(ctx, username, id); err != nil {
		return fmt.Errorf("職歴の削除に失敗しました: %w", err)
	}
	return nil
}

// upsertEducation は学歴のcreate-or-mergeを行い、新規作成かどうかを返す。
func (s *Service) upsertEducation(ctx context.Context, username string, input UpsertInput, now time.Time) (bool, error) {
	existing, err := s.educationRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("学歴の取得に失敗しました: %w", err)
	}

	edu := &model.Education{
		Username:      username,
		SchoolName:    input.University,
		Degree:        input.Degree,
		YearsAttended: input.YearsAttended,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created := existing == nil
	if !created {
		// マージ更新: 空入力は保存済みの値を保持する
		edu.CreatedAt = existing.CreatedAt
		if edu.SchoolName == "" {
			edu.SchoolName = existing.SchoolName
		}
		if edu.Degree == "" {
			edu.Degree = existing.Degree
		}
		if edu.YearsAttended == "" {
			edu.YearsAttended = existing.YearsAttended
		}
	}

	if err := s.educationRepo.Upsert(ctx, edu); err != nil {
		return false, fmt.Errorf("学歴の保存に失敗しました: %w", err)
	}

	return created, nil
}

// addExperienceWithinLimit は上限未満の場合のみ職歴を追加する。
// 追加できた場合はtrue、上限到達の場合はfalseを返す。
func (s *Service) addExperienceWithinLimit(ctx context.Context, username string, input ExperienceInput) (bool, error) {
	count, err := s.experienceRepo.CountByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("職歴件数の取得に失敗しました: %w", err)
	}
	if count >= s.config.ExperienceLimit {
		if s.recorder != nil {
			s.recorder.RecordExperienceLimitHit()
		}
		return false, nil
	}

	experience := &model.Experience{
		ID:          uuid.New().String(),
		Username:    username,
		Title:       input.Title,
		Employer:    input.Employer,
		DateStarted: input.DateStarted,
		DateEnded:   input.DateEnded,
		Location:    input.Location,
		Description: s.sanitize(input.Description),
		CreatedAt:   time.Now(),
	}

	if err := s.experienceRepo.Create(ctx, experience); err != nil {
		return false, fmt.Errorf("職歴の作成に失敗しました: %w", err)
	}

	return true, nil
}

// sanitize はサニタイザが設定されている場合のみテキストを処理する。
func (s *Service) sanitize(raw string) string {
	if s.sanitizer == nil {
		return raw
	}
	return s.sanitizer.Sanitize(raw)
}

// mergeField は非空の入力値でのみフィールドを上書きする。
func mergeField(dst *string, input string) {
	if input != "" {
		*dst = input
	}
}

// titleCase は各単語の先頭を大文字化する（例: "state u" → "State U"）。
func titleCase(s string) string {
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}
