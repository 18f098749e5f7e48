package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/campuslink/internal/model"
)

// PostgresEducationRepo はPostgreSQLを使用した学歴リポジトリ。
type PostgresEducationRepo struct {
	db *sql.DB
}

// NewPostgresEducationRepo はPostgresEducationRepoを生成する。
func NewPostgresEducationRepo(db *sql.DB) *PostgresEducationRepo {
	return &PostgresEducationRepo{db: db}
}

// FindByUsername は指定ユーザーの学歴を取得する。見つからない場合はnilを返す。
func (r *PostgresEducationRepo) FindByUsername(ctx context.Context, username string) (*model.Education, error) {
	education := &model.Education{}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, school_name, degree, years_attended, created_at, updated_at
		 FROM education WHERE username = $1`,
		username,
	).Scan(&education.Username, &education.SchoolName, &education.Degree,
		&education.YearsAttended, &education.CreatedAt, &education.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find education: %w", err)
	}

	return education, nil
}

// Upsert は学歴をcreate-or-replaceで保存する。
// ON CONFLICTで同一ユーザーの既存行を置き換えるため、再実行しても結果は変わらない。
func (r *PostgresEducationRepo) Upsert(ctx context.Context, education *model.Education) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO education (username, school_name, degree, years_attended, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (username) DO UPDATE
		 SET school_name = EXCLUDED.school_name,
		     degree = EXCLUDED.degree,
		     years_attended = EXCLUDED.years_attended,
		     updated_at = EXCLUDED.updated_at`,
		education.Username, education.SchoolName, education.Degree,
		education.YearsAttended, education.CreatedAt, education.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert education: %w", err)
	}
	return nil
}

// DeleteByUsername は指定ユーザーの学歴を削除する。
func (r *PostgresEducationRepo) DeleteByUsername(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM education WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("failed to delete education: %w", err)
	}
	return nil
}

// compile-time interface check
var _ EducationRepository = (*PostgresEducationRepo)(nil)
