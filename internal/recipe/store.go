package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store caches the ingredients detected in uploaded images, keyed by image hash.
type Store interface {
	GetDetectedIngredients(ctx context.Context, imageHash string) ([]string, error)
	SaveDetectedIngredients(ctx context.Context, imageHash string, ingredients []string) error
}

// PostgresStore implements Store for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

type detectionRow struct {
	ImageHash   string    `db:"image_hash"`
	Ingredients []byte    `db:"ingredients"`
	DetectedAt  time.Time `db:"detected_at"`
}

// NewPostgresStore connects to dataSourceName and creates the schema if needed.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS image_detections (
		image_hash TEXT PRIMARY KEY,
		ingredients JSONB NOT NULL,
		detected_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create image_detections table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// GetDetectedIngredients returns the cached detection for imageHash, or nil
// when the image has not been seen before.
func (s *PostgresStore) GetDetectedIngredients(ctx context.Context, imageHash string) ([]string, error) {
	var row detectionRow
	err := s.db.GetContext(ctx, &row, "SELECT image_hash, ingredients, detected_at FROM image_detections WHERE image_hash = $1", imageHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get detection by hash: %w", err)
	}

	var ingredients []string
	if err := json.Unmarshal(row.Ingredients, &ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	return ingredients, nil
}

// SaveDetectedIngredients stores or replaces the detection for imageHash.
func (s *PostgresStore) SaveDetectedIngredients(ctx context.Context, imageHash string, ingredients []string) error {
	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO image_detections (image_hash, ingredients, detected_at) VALUES ($1, $2, now()) ON CONFLICT (image_hash) DO UPDATE SET ingredients = $2, detected_at = now()",
		imageHash,
		ingredientsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save detection: %w", err)
	}
	return nil
}

// Close releases the database pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
