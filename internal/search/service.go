// Package search はアカウントディレクトリに対する検索機能を提供する。
package search

import (
	"context"
	"fmt"

	"github.com/hitoshi/campuslink/internal/repository"
)

// Service は検索のサービス層。
// アカウントディレクトリに対する読み取り専用の完全一致検索のみを提供する。
// 該当なしはエラーではなく空スライスで表す。
type Service struct {
	accountRepo repository.AccountRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(accountRepo repository.AccountRepository) *Service {
	return &Service{accountRepo: accountRepo}
}

// FindByLastName は姓の完全一致でユーザー名一覧を返す。
func (s *Service) FindByLastName(ctx context.Context, lastName string) ([]string, error) {
	usernames, err := s.accountRepo.ListUsernamesByLastName(ctx, lastName)
	if err != nil {
		return nil, fmt.Errorf("姓での検索に失敗しました: %w", err)
	}
	return usernames, nil
}

// FindByUniversity は大学名の完全一致でユーザー名一覧を返す。
func (s *Service) FindByUniversity(ctx context.Context, university string) ([]string, error) {
	usernames, err := s.accountRepo.ListUsernamesByUniversity(ctx, university)
	if err != nil {
		return nil, fmt.Errorf("大学名での検索に失敗しました: %w", err)
	}
	return usernames, nil
}

// FindByMajor は専攻の完全一致でユーザー名一覧を返す。
func (s *Service) FindByMajor(ctx context.Context, major string) ([]string, error) {
	usernames, err := s.accountRepo.ListUsernamesByMajor(ctx, major)
	if err != nil {
		return nil, fmt.Errorf("専攻での検索に失敗しました: %w", err)
	}
	return usernames, nil
}

// FindByFullName は姓名の完全一致でアカウントの存在を確認する。
// 大文字小文字は区別される（正規化は行わない）。
func (s *Service) FindByFullName(ctx context.Context, firstName, lastName string) (bool, error) {
	exists, err := s.accountRepo.ExistsByFullName(ctx, firstName, lastName)
	if err != nil {
		return false, fmt.Errorf("姓名での検索に失敗しました: %w", err)
	}
	return exists, nil
}
