package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rwidyatama/go-genai-service/internal/domain"
	"github.com/rwidyatama/go-genai-service/internal/server"
)

type TemplateRepository struct {
	pool *pgxpool.Pool
}

func NewTemplateRepository(s *server.Server) *TemplateRepository {
	return &TemplateRepository{pool: s.DB.Pool}
}

const templateColumns = `
	id, name, description, body, model, temperature, max_tokens,
	created_at, updated_at`

func scanTemplate(row pgx.Row) (*domain.PromptTemplate, error) {
	var t domain.PromptTemplate
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.Body, &t.Model,
		&t.Temperature, &t.MaxTokens, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) Create(ctx context.Context, t *domain.PromptTemplate) error {
	query := `
		INSERT INTO prompt_templates (id, name, description, body, model, temperature, max_tokens)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		t.ID, t.Name, t.Description, t.Body, t.Model, t.Temperature, t.MaxTokens,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PromptTemplate, error) {
	query := `SELECT` + templateColumns + ` FROM prompt_templates WHERE id = $1`
	return scanTemplate(r.pool.QueryRow(ctx, query, id))
}

func (r *TemplateRepository) List(ctx context.Context, limit, offset int) ([]domain.PromptTemplate, int64, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	query := `SELECT` + templateColumns + `, COUNT(*) OVER() AS total
		FROM prompt_templates
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		templates []domain.PromptTemplate
		total     int64
	)
	for rows.Next() {
		var t domain.PromptTemplate
		err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Body, &t.Model,
			&t.Temperature, &t.MaxTokens, &t.CreatedAt, &t.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, err
		}
		templates = append(templates, t)
	}
	return templates, total, rows.Err()
}

func (r *TemplateRepository) Update(ctx context.Context, t *domain.PromptTemplate) error {
	query := `
		UPDATE prompt_templates
		SET name = $2, description = $3, body = $4, model = $5,
			temperature = $6, max_tokens = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		t.ID, t.Name, t.Description, t.Body, t.Model, t.Temperature, t.MaxTokens,
	).Scan(&t.UpdatedAt)
	return err
}

func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prompt_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
