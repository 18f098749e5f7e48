package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/campuslink/internal/model"
)

// PostgresExperienceRepo はPostgreSQLを使用した職歴リポジトリ。
type PostgresExperienceRepo struct {
	db *sql.DB
}

// NewPostgresExperienceRepo はPostgresExperienceRepoを生成する。
func NewPostgresExperienceRepo(db *sql.DB) *PostgresExperienceRepo {
	return &PostgresExperienceRepo{db: db}
}

// CountByUsername は指定ユーザーの職歴件数を返す。
func (r *PostgresExperienceRepo) CountByUsername(ctx context.Context, username string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM experience WHERE username = $1`,
		username,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count experience entries: %w", err)
	}
	return count, nil
}

// Create は職歴エントリを作成する。
func (r *PostgresExperienceRepo) Create(ctx context.Context, experience *model.Experience) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO experience (id, username, title, employer, date_started, date_ended, location, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		experience.ID, experience.Username, experience.Title, experience.Employer,
		experience.DateStarted, experience.DateEnded, experience.Location,
		experience.Description, experience.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert experience: %w", err)
	}
	return nil
}

// ListByUsername は指定ユーザーの職歴一覧を作成順で返す。
func (r *PostgresExperienceRepo) ListByUsername(ctx context.Context, username string) ([]*model.Experience, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, title, employer, date_started, date_ended, location, description, created_at
		 FROM experience WHERE username = $1 ORDER BY created_at`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experience entries: %w", err)
	}
	defer rows.Close()

	entries := []*model.Experience{}
	for rows.Next() {
		e := &model.Experience{}
		if err := rows.Scan(&e.ID, &e.Username, &e.Title, &e.Employer,
			&e.DateStarted, &e.DateEnded, &e.Location, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate experience entries: %w", err)
	}

	return entries, nil
}

// Delete は指定ユーザーの指定IDの職歴を削除する。
func (r *PostgresExperienceRepo) Delete(ctx context.Context, username, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM experience WHERE username = $1 AND id = $2`,
		username, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete experience: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("experience not found: %s/%s", username, id)
	}
	return nil
}

// DeleteByUsername は指定ユーザーの全職歴を削除する。
func (r *PostgresExperienceRepo) DeleteByUsername(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM experience WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("failed to delete experience entries: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ExperienceRepository = (*PostgresExperienceRepo)(nil)
