// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/campuslink/internal/model"
)

// AccountRepository はアカウントデータの永続化インターフェース。
type AccountRepository interface {
	// FindByUsername は指定ユーザー名のアカウントを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.Account, error)

	// Create はアカウントを作成する。ユーザー名が既に存在する場合はエラーを返す。
	Create(ctx context.Context, account *model.Account) error

	// DeleteByUsername は指定ユーザー名のアカウントを削除する。
	// 対象が存在しない場合は削除件数0としてエラーを返す。
	DeleteByUsername(ctx context.Context, username string) error

	// FindByCredentials はユーザー名とパスワードの完全一致でアカウントを検索する。
	// 見つからない場合はnilを返す。
	FindByCredentials(ctx context.Context, username, secret string) (*model.Account, error)

	// Count は登録済みアカウント数を返す。
	Count(ctx context.Context) (int, error)

	// ListUsernamesByLastName は姓の完全一致でユーザー名一覧を返す。
	ListUsernamesByLastName(ctx context.Context, lastName string) ([]string, error)

	// ListUsernamesByUniversity は大学名の完全一致でユーザー名一覧を返す。
	ListUsernamesByUniversity(ctx context.Context, university string) ([]string, error)

	// ListUsernamesByMajor は専攻の完全一致でユーザー名一覧を返す。
	ListUsernamesByMajor(ctx context.Context, major string) ([]string, error)

	// ExistsByFullName は姓名の完全一致（大文字小文字を区別）でアカウントの存在を確認する。
	ExistsByFullName(ctx context.Context, firstName, lastName string) (bool, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUsername は指定ユーザーの全セッションを削除する。
	DeleteByUsername(ctx context.Context, username string) error
}

// FriendRequestRepository は保留中友達リクエストの永続化インターフェース。
// エッジは (recipient, requester) の有向ペアで、順序ペアにつき最大1件。
type FriendRequestRepository interface {
	// Create は保留中エッジを挿入する。
	Create(ctx context.Context, recipient, requester string) error

	// Exists は保留中エッジ (recipient, requester) の存在を確認する。
	Exists(ctx context.Context, recipient, requester string) (bool, error)

	// ListRequestersByRecipient は指定ユーザー宛ての保留中リクエスト送信者一覧を返す。
	// 該当なしの場合は空スライスを返す。
	ListRequestersByRecipient(ctx context.Context, recipient string) ([]string, error)

	// Delete は保留中エッジを削除する。対象が存在しない場合はエラーを返す。
	Delete(ctx context.Context, recipient, requester string) error

	// DeleteByUsername は指定ユーザーが送信者または受信者である全エッジを削除する。
	DeleteByUsername(ctx context.Context, username string) error
}

// FriendshipRepository は友達関係の永続化インターフェース。
// 対称関係は相互の2行として保存され、2行は常に同一トランザクションで操作される。
// 行単位の挿入・削除は公開しない。
type FriendshipRepository interface {
	// ConnectFromRequest は保留中エッジ (recipient, requester) の削除と
	// 相互2行の挿入を同一トランザクションで実行する。
	// どちらかが失敗した場合はすべてロールバックされる。
	ConnectFromRequest(ctx context.Context, recipient, requester string) error

	// Disconnect は相互の2行を同一トランザクションで削除する。
	Disconnect(ctx context.Context, userA, userB string) error

	// ListFriends は指定ユーザーの友達のユーザー名一覧を返す。
	// 友達がいない場合は空スライスを返す。
	ListFriends(ctx context.Context, username string) ([]string, error)

	// Exists は (a,b) 方向の行の存在を確認する。
	Exists(ctx context.Context, userA, userB string) (bool, error)
}

// ProfileRepository はプロフィールデータの永続化インターフェース。
type ProfileRepository interface {
	// FindByUsername は指定ユーザーのプロフィールを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.Profile, error)

	// Create はプロフィールを作成する。
	Create(ctx context.Context, profile *model.Profile) error

	// Update はプロフィールを上書き更新する。
	Update(ctx context.Context, profile *model.Profile) error

	// DeleteByUsername は指定ユーザーのプロフィールを削除する。
	DeleteByUsername(ctx context.Context, username string) error
}

// EducationRepository は学歴データの永続化インターフェース。
type EducationRepository interface {
	// FindByUsername は指定ユーザーの学歴を取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.Education, error)

	// Upsert は学歴をcreate-or-replaceで保存する。
	Upsert(ctx context.Context, education *model.Education) error

	// DeleteByUsername は指定ユーザーの学歴を削除する。
	DeleteByUsername(ctx context.Context, username string) error
}

// ExperienceRepository は職歴データの永続化インターフェース。
type ExperienceRepository interface {
	// CountByUsername は指定ユーザーの職歴件数を返す。
	CountByUsername(ctx context.Context, username string) (int, error)

	// Create は職歴エントリを作成する。
	Create(ctx context.Context, experience *model.Experience) error

	// ListByUsername は指定ユーザーの職歴一覧を作成順で返す。
	ListByUsername(ctx context.Context, username string) ([]*model.Experience, error)

	// Delete は指定ユーザーの指定IDの職歴を削除する。
	Delete(ctx context.Context, username, id string) error

	// DeleteByUsername は指定ユーザーの全職歴を削除する。
	DeleteByUsername(ctx context.Context, username string) error
}

// JobRepository は求人データの永続化インターフェース。
type JobRepository interface {
	// FindByID は指定IDの求人を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Job, error)

	// Create は求人を作成する。
	Create(ctx context.Context, job *model.Job) error

	// List は求人一覧を作成順で返す。
	List(ctx context.Context) ([]*model.Job, error)

	// Count は掲載中の求人数を返す。
	Count(ctx context.Context) (int, error)

	// DeleteByID は指定IDの求人を削除する。
	DeleteByID(ctx context.Context, id string) error
}
