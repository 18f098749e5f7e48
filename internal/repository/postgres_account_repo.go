package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/campuslink/internal/model"
)

// PostgresAccountRepo はPostgreSQLを使用したアカウントリポジトリ。
type PostgresAccountRepo struct {
	db *sql.DB
}

// NewPostgresAccountRepo はPostgresAccountRepoを生成する。
func NewPostgresAccountRepo(db *sql.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

// FindByUsername は指定ユーザー名のアカウントを取得する。見つからない場合はnilを返す。
func (r *PostgresAccountRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	account := &model.Account{}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, secret, first_name, last_name, university, major, created_at
		 FROM accounts WHERE username = $1`,
		username,
	).Scan(&account.Username, &account.Secret, &account.FirstName, &account.LastName,
		&account.University, &account.Major, &account.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by username: %w", err)
	}

	return account, nil
}

// Create はアカウントを作成する。ユーザー名が既に存在する場合はエラーを返す。
// 一意性はaccounts.usernameの主キー制約で担保される。
func (r *PostgresAccountRepo) Create(ctx context.Context, account *model.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (username, secret, first_name, last_name, university, major, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.Username, account.Secret, account.FirstName, account.LastName,
		account.University, account.Major, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// DeleteByUsername は指定ユーザー名のアカウントを削除する。
func (r *PostgresAccountRepo) DeleteByUsername(ctx context.Context, username string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE username = $1`,
		username,
	)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account not found: %s", username)
	}
	return nil
}

// FindByCredentials はユーザー名とパスワードの完全一致でアカウントを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresAccountRepo) FindByCredentials(ctx context.Context, username, secret string) (*model.Account, error) {
	account := &model.Account{}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, secret, first_name, last_name, university, major, created_at
		 FROM accounts WHERE username = $1 AND secret = $2`,
		username, secret,
	).Scan(&account.Username, &account.Secret, &account.FirstName, &account.LastName,
		&account.University, &account.Major, &account.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by credentials: %w", err)
	}

	return account, nil
}

// Count は登録済みアカウント数を返す。
func (r *PostgresAccountRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// ListUsernamesByLastName は姓の完全一致でユーザー名一覧を返す。
func (r *PostgresAccountRepo) ListUsernamesByLastName(ctx context.Context, lastName string) ([]string, error) {
	return r.listUsernames(ctx,
		`SELECT username FROM accounts WHERE last_name = $1`, lastName)
}

// ListUsernamesByUniversity は大学名の完全一致でユーザー名一覧を返す。
func (r *PostgresAccountRepo) ListUsernamesByUniversity(ctx context.Context, university string) ([]string, error) {
	return r.listUsernames(ctx,
		`SELECT username FROM accounts WHERE university = $1`, university)
}

// ListUsernamesByMajor は専攻の完全一致でユーザー名一覧を返す。
func (r *PostgresAccountRepo) ListUsernamesByMajor(ctx context.Context, major string) ([]string, error) {
	return r.listUsernames(ctx,
		`SELECT username FROM accounts WHERE major = $1`, major)
}

// ExistsByFullName は姓名の完全一致（大文字小文字を区別）でアカウントの存在を確認する。
func (r *PostgresAccountRepo) ExistsByFullName(ctx context.Context, firstName, lastName string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE first_name = $1 AND last_name = $2)`,
		firstName, lastName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account by full name: %w", err)
	}
	return exists, nil
}

// listUsernames は単一カラムのユーザー名クエリを実行する共通処理。
// 該当なしの場合は空スライスを返す。
func (r *PostgresAccountRepo) listUsernames(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list usernames: %w", err)
	}
	defer rows.Close()

	usernames := []string{}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usernames: %w", err)
	}

	return usernames, nil
}

// compile-time interface check
var _ AccountRepository = (*PostgresAccountRepo)(nil)
