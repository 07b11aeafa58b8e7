package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promptlab/promptlab/internal/models"
)

// PostgresStore persists entities through a pgx pool. The schema lives in
// migrations/.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const promptCols = "id, title, content, description, collection_id, created_at, updated_at"

func scanPrompt(row pgx.Row, p *models.Prompt) error {
	return row.Scan(&p.ID, &p.Title, &p.Content, &p.Description, &p.CollectionID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresStore) CreatePrompt(ctx context.Context, p *models.Prompt) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO prompts (id, title, content, description, collection_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Title, p.Content, p.Description, p.CollectionID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPrompt(ctx context.Context, id string) (*models.Prompt, error) {
	var p models.Prompt
	err := scanPrompt(s.db.QueryRow(ctx,
		`SELECT `+promptCols+` FROM prompts WHERE id = $1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) ListPrompts(ctx context.Context) ([]models.Prompt, error) {
	return s.queryPrompts(ctx, `SELECT `+promptCols+` FROM prompts`)
}

func (s *PostgresStore) ListPromptsByCollection(ctx context.Context, collectionID string) ([]models.Prompt, error) {
	return s.queryPrompts(ctx,
		`SELECT `+promptCols+` FROM prompts WHERE collection_id = $1`, collectionID)
}

func (s *PostgresStore) queryPrompts(ctx context.Context, sql string, args ...any) ([]models.Prompt, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	var prompts []models.Prompt
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Description, &p.CollectionID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

func (s *PostgresStore) UpdatePrompt(ctx context.Context, p *models.Prompt) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE prompts SET title = $1, content = $2, description = $3, collection_id = $4, updated_at = $5
		 WHERE id = $6`,
		p.Title, p.Content, p.Description, p.CollectionID, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeletePrompt(ctx context.Context, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM prompt_versions WHERE prompt_id = $1`, id); err != nil {
		return fmt.Errorf("delete versions: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) FindPromptByTitle(ctx context.Context, title, collectionID string) (*models.Prompt, error) {
	var p models.Prompt
	err := scanPrompt(s.db.QueryRow(ctx,
		`SELECT `+promptCols+` FROM prompts WHERE title = $1 AND collection_id = $2`,
		title, collectionID), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find prompt by title: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) CreateCollection(ctx context.Context, c *models.Collection) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO collections (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Description, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	var c models.Collection
	err := s.db.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM collections WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) ListCollections(ctx context.Context) ([]models.Collection, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, description, created_at FROM collections`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var colls []models.Collection
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		colls = append(colls, c)
	}
	return colls, rows.Err()
}

// DeleteCollection removes the collection, its prompts and their ledgers in
// one transaction, so a failed cascade leaves nothing half-deleted.
func (s *PostgresStore) DeleteCollection(ctx context.Context, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM prompt_versions WHERE prompt_id IN (SELECT id FROM prompts WHERE collection_id = $1)`, id); err != nil {
		return fmt.Errorf("delete versions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM prompts WHERE collection_id = $1`, id); err != nil {
		return fmt.Errorf("delete prompts: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) CollectionExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM collections WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("collection exists by name: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) AppendVersion(ctx context.Context, v *models.PromptVersion) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO prompt_versions (version_id, prompt_id, collection_id, version_number, created_at, content, changes_summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.VersionID, v.PromptID, v.CollectionID, v.VersionNumber, v.CreatedAt, v.Content, v.ChangesSummary,
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListVersionsByPrompt(ctx context.Context, promptID string) ([]models.PromptVersion, error) {
	rows, err := s.db.Query(ctx,
		`SELECT version_id, prompt_id, collection_id, version_number, created_at, content, changes_summary
		 FROM prompt_versions WHERE prompt_id = $1 ORDER BY version_number ASC`,
		promptID,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	versions := []models.PromptVersion{}
	for rows.Next() {
		var v models.PromptVersion
		if err := rows.Scan(&v.VersionID, &v.PromptID, &v.CollectionID, &v.VersionNumber, &v.CreatedAt, &v.Content, &v.ChangesSummary); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *PostgresStore) CountVersionsByPrompt(ctx context.Context, promptID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM prompt_versions WHERE prompt_id = $1`, promptID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count versions: %w", err)
	}
	return n, nil
}
