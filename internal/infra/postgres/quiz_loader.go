package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

// QuizLoader loads quiz JSONB documents and the manifest from Postgres.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}

	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	quiz.ID = quizID
	if err := quiz.Validate(); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func (l *QuizLoader) LoadManifest(ctx context.Context) ([]domain.ManifestEntry, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, title FROM quizzes ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	defer rows.Close()

	var manifest []domain.ManifestEntry
	for rows.Next() {
		var entry domain.ManifestEntry
		if err := rows.Scan(&entry.ID, &entry.Title); err != nil {
			return nil, fmt.Errorf("scan manifest row: %w", err)
		}
		manifest = append(manifest, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read manifest rows: %w", err)
	}
	return manifest, nil
}
