package job

import (
	"context"
	"errors"
	"strings"
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
	return &model.Account{Username: username, FirstName: "Taro", LastName: "Yamada"}, nil
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

type mockJobRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.Job, error)
	createFn     func(ctx context.Context, job *model.Job) error
	listFn       func(ctx context.Context) ([]*model.Job, error)
	countFn      func(ctx context.Context) (int, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error {
	if m.createFn != nil {
		return m.createFn(ctx, job)
	}
	return nil
}
func (m *mockJobRepo) List(ctx context.Context) ([]*model.Job, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*model.Job{}, nil
}
func (m *mockJobRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}
func (m *mockJobRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

// upperSanitizer は通過を検証しやすいテスト用サニタイザ。
type upperSanitizer struct{}

func (upperSanitizer) Sanitize(raw string) string { return strings.ToUpper(raw) }

// --- Postテスト ---

func TestService_Post_Success(t *testing.T) {
	var created *model.Job
	jobRepo := &mockJobRepo{
		createFn: func(ctx context.Context, job *model.Job) error {
			created = job
			return nil
		},
	}

	svc := NewService(jobRepo, &mockAccountRepo{}, nil, Config{JobLimit: 10})

	job, err := svc.Post(context.Background(), "taro123", PostInput{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		Employer:    "Acme Corp",
		Location:    "Tokyo",
		Salary:      "8M JPY",
	})
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if job.ID == "" {
		t.Error("expected non-empty job ID")
	}
	if job.Title != "Backend Engineer" {
		t.Errorf("title = %q, want %q", job.Title, "Backend Engineer")
	}

	// 掲載者の氏名はアカウントから引き継ぐ
	if job.PosterFirst != "Taro" || job.PosterLast != "Yamada" {
		t.Errorf("poster = (%q, %q), want (Taro, Yamada)", job.PosterFirst, job.PosterLast)
	}
	if created == nil {
		t.Fatal("expected job Create to be called")
	}
}

func TestService_Post_AccountNotFound(t *testing.T) {
	accountRepo := &mockAccountRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.Account, error) {
			return nil, nil
		},
	}

	svc := NewService(&mockJobRepo{}, accountRepo, nil, Config{JobLimit: 10})

	_, err := svc.Post(context.Background(), "ghost99", PostInput{Title: "Engineer"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeAccountNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeAccountNotFound)
	}
}

func TestService_Post_LimitReached(t *testing.T) {
	createCalled := false
	jobRepo := &mockJobRepo{
		countFn: func(ctx context.Context) (int, error) {
			return 10, nil
		},
		createFn: func(ctx context.Context, job *model.Job) error {
			createCalled = true
			return nil
		},
	}

	svc := NewService(jobRepo, &mockAccountRepo{}, nil, Config{JobLimit: 10})

	_, err := svc.Post(context.Background(), "taro123", PostInput{Title: "One Too Many"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeJobLimit {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeJobLimit)
	}
	if createCalled {
		t.Error("Create should not be called at the limit")
	}
}

// 説明文のみサニタイズ対象。タイトル等はそのまま保存される。
func TestService_Post_SanitizesDescriptionOnly(t *testing.T) {
	var created *model.Job
	jobRepo := &mockJobRepo{
		createFn: func(ctx context.Context, job *model.Job) error {
			created = job
			return nil
		},
	}

	svc := NewService(jobRepo, &mockAccountRepo{}, upperSanitizer{}, Config{JobLimit: 10})

	_, err := svc.Post(context.Background(), "taro123", PostInput{
		Title:       "Engineer",
		Description: "build things",
	})
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if created.Description != "BUILD THINGS" {
		t.Errorf("description = %q, want sanitized value", created.Description)
	}
	if created.Title != "Engineer" {
		t.Errorf("title = %q, want untouched value", created.Title)
	}
}

// --- List / Countテスト ---

func TestService_List(t *testing.T) {
	jobRepo := &mockJobRepo{
		listFn: func(ctx context.Context) ([]*model.Job, error) {
			return []*model.Job{
				{ID: "job-1", Title: "Engineer"},
				{ID: "job-2", Title: "Designer"},
			}, nil
		},
	}

	svc := NewService(jobRepo, &mockAccountRepo{}, nil, Config{JobLimit: 10})

	jobs, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("jobs length = %d, want 2", len(jobs))
	}
}

func TestService_List_Empty(t *testing.T) {
	svc := NewService(&mockJobRepo{}, &mockAccountRepo{}, nil, Config{JobLimit: 10})

	jobs, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if jobs == nil {
		t.Error("expected empty slice, not nil")
	}
	if len(jobs) != 0 {
		t.Errorf("jobs length = %d, want 0", len(jobs))
	}
}

func TestService_Count(t *testing.T) {
	jobRepo := &mockJobRepo{
		countFn: func(ctx context.Context) (int, error) {
			return 7, nil
		},
	}

	svc := NewService(jobRepo, &mockAccountRepo{}, nil, Config{JobLimit: 10})

	count, err := svc.Count(context.Background())
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}

// --- Deleteテスト ---

func TestService_Delete_Success(t *testing.T) {
	deleted := false
	jobRepo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id, Title: "Engineer"}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleted = true
			if id != "job-1" {
				t.Errorf("id = %q, want %q", id, "job-1")
			}
			return nil
		},
	}

	svc := NewService(jobRepo, &mockAccountRepo{}, nil, Config{JobLimit: 10})

	if err := svc.Delete(context.Background(), "job-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !deleted {
		t.Error("expected DeleteByID to be called")
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := NewService(&mockJobRepo{}, &mockAccountRepo{}, nil, Config{JobLimit: 10})

	err := svc.Delete(context.Background(), "missing-id")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeJobNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeJobNotFound)
	}
}
