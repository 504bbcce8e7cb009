// Package insight persists the results of feedback, engagement and retention
// analyses so HR can review them later.
package insight

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Known insight types. Stored as plain text so new analysis kinds do not
// require a migration.
const (
	TypeSentiment  = "sentiment"
	TypeEngagement = "engagement"
	TypeRetention  = "retention"
)

type Insight struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.ensureSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS hr_insights (
			id           TEXT PRIMARY KEY,
			insight_type TEXT NOT NULL,
			result       TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create hr_insights table: %w", err)
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS hr_insights_type_idx ON hr_insights (insight_type)`)
	if err != nil {
		return fmt.Errorf("create hr_insights index: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Store saves an analysis result under a fresh ID.
func (s *Store) Store(ctx context.Context, insightType, result string) error {
	id := fmt.Sprintf("%s_%s", insightType, uuid.NewString())
	query := `INSERT INTO hr_insights (id, insight_type, result, created_at) VALUES ($1, $2, $3, NOW())`

	if _, err := s.db.ExecContext(ctx, query, id, insightType, result); err != nil {
		return fmt.Errorf("store %s insight: %w", insightType, err)
	}
	return nil
}

// List returns stored insights, newest first. An empty type returns all
// insights regardless of kind.
func (s *Store) List(ctx context.Context, insightType string) ([]Insight, error) {
	query := `SELECT id, insight_type, result, created_at FROM hr_insights`
	var args []interface{}
	if insightType != "" {
		query += ` WHERE insight_type = $1`
		args = append(args, insightType)
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	insights := []Insight{}
	for rows.Next() {
		var in Insight
		if err := rows.Scan(&in.ID, &in.Type, &in.Result, &in.CreatedAt); err != nil {
			return nil, err
		}
		insights = append(insights, in)
	}
	return insights, rows.Err()
}

// Clear deletes every stored insight.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM hr_insights`); err != nil {
		return fmt.Errorf("clear insights: %w", err)
	}
	return nil
}
