package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresFriendRequestRepo はPostgreSQLを使用した友達リクエストリポジトリ。
// 保留中エッジは (recipient, requester) の複合主キーで順序ペアにつき最大1件。
type PostgresFriendRequestRepo struct {
	db *sql.DB
}

// NewPostgresFriendRequestRepo はPostgresFriendRequestRepoを生成する。
func NewPostgresFriendRequestRepo(db *sql.DB) *PostgresFriendRequestRepo {
	return &PostgresFriendRequestRepo{db: db}
}

// Create は保留中エッジを挿入する。
func (r *PostgresFriendRequestRepo) Create(ctx context.Context, recipient, requester string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pending_requests (recipient, requester) VALUES ($1, $2)`,
		recipient, requester,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pending request: %w", err)
	}
	return nil
}

// Exists は保留中エッジ (recipient, requester) の存在を確認する。
func (r *PostgresFriendRequestRepo) Exists(ctx context.Context, recipient, requester string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pending_requests WHERE recipient = $1 AND requester = $2)`,
		recipient, requester,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

// ListRequestersByRecipient は指定ユーザー宛ての保留中リクエスト送信者一覧を返す。
// 該当なしの場合は空スライスを返す。
func (r *PostgresFriendRequestRepo) ListRequestersByRecipient(ctx context.Context, recipient string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT requester FROM pending_requests WHERE recipient = $1 ORDER BY created_at`,
		recipient,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	requesters := []string{}
	for rows.Next() {
		var requester string
		if err := rows.Scan(&requester); err != nil {
			return nil, fmt.Errorf("failed to scan requester: %w", err)
		}
		requesters = append(requesters, requester)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending requests: %w", err)
	}

	return requesters, nil
}

// Delete は保留中エッジを削除する。対象が存在しない場合はエラーを返す。
func (r *PostgresFriendRequestRepo) Delete(ctx context.Context, recipient, requester string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM pending_requests WHERE recipient = $1 AND requester = $2`,
		recipient, requester,
	)
	if err != nil {
		return fmt.Errorf("failed to delete pending request: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("pending request not found: %s <- %s", recipient, requester)
	}
	return nil
}

// DeleteByUsername は指定ユーザーが送信者または受信者である全エッジを削除する。
func (r *PostgresFriendRequestRepo) DeleteByUsername(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM pending_requests WHERE recipient = $1 OR requester = $1`,
		username,
	)
	if err != nil {
		return fmt.Errorf("failed to delete pending requests by username: %w", err)
	}
	return nil
}

// compile-time interface check
var _ FriendRequestRepository = (*PostgresFriendRequestRepo)(nil)
