package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresFriendshipRepo はPostgreSQLを使用した友達関係リポジトリ。
// 対称関係は相互の2行として保存し、2行は常に同一トランザクションで操作する。
// 片側だけの行が残ることはない。
type PostgresFriendshipRepo struct {
	db *sql.DB
}

// NewPostgresFriendshipRepo はPostgresFriendshipRepoを生成する。
func NewPostgresFriendshipRepo(db *sql.DB) *PostgresFriendshipRepo {
	return &PostgresFriendshipRepo{db: db}
}

// ConnectFromRequest は保留中エッジ (recipient, requester) の削除と
// 相互2行の挿入を同一トランザクションで実行する。
// 承認操作の途中状態が呼び出し側から観測されることはない。
func (r *PostgresFriendshipRepo) ConnectFromRequest(ctx context.Context, recipient, requester string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 保留中エッジを削除
	result, err := tx.ExecContext(ctx,
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

	// 相互の2行を挿入
	if err := insertFriendshipPair(ctx, tx, recipient, requester); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Disconnect は相互の2行を同一トランザクションで削除する。
func (r *PostgresFriendshipRepo) Disconnect(ctx context.Context, userA, userB string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM friendships WHERE username = $1 AND friend_username = $2`,
		userA, userB,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friendship row: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM friendships WHERE username = $1 AND friend_username = $2`,
		userB, userA,
	)
	if err != nil {
		return fmt.Errorf("failed to delete reciprocal friendship row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListFriends は指定ユーザーの友達のユーザー名一覧を返す。
// 相互2行のうちusername側の行だけを読めば隣接リストが得られる。
func (r *PostgresFriendshipRepo) ListFriends(ctx context.Context, username string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT friend_username FROM friendships WHERE username = $1 ORDER BY created_at`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []string{}
	for rows.Next() {
		var friend string
		if err := rows.Scan(&friend); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	return friends, nil
}

// Exists は (a,b) 方向の行の存在を確認する。
func (r *PostgresFriendshipRepo) Exists(ctx context.Context, userA, userB string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM friendships WHERE username = $1 AND friend_username = $2)`,
		userA, userB,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

// insertFriendshipPair はトランザクション内で相互の2行を挿入する。
func insertFriendshipPair(ctx context.Context, tx *sql.Tx, userA, userB string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO friendships (username, friend_username) VALUES ($1, $2)`,
		userA, userB,
	)
	if err != nil {
		return fmt.Errorf("failed to insert friendship row: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO friendships (username, friend_username) VALUES ($1, $2)`,
		userB, userA,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reciprocal friendship row: %w", err)
	}

	return nil
}

// compile-time interface check
var _ FriendshipRepository = (*PostgresFriendshipRepo)(nil)
