package store

import (
	"context"
	"fmt"
	"time"

	"tradejournal/internal/db"
	"tradejournal/internal/models"
)

type StrategyStore struct {
	db DB
}

func NewStrategyStore(db DB) *StrategyStore {
	return &StrategyStore{db: db}
}

const strategyColumns = `id, name, description, parameters, performance_metrics,
	strategy_image_url, example_images, created_at, updated_at`

type strategyRow struct {
	ID                 string          `db:"id"`
	Name               string          `db:"name"`
	Description        *string         `db:"description"`
	Parameters         models.Document `db:"parameters"`
	PerformanceMetrics models.Document `db:"performance_metrics"`
	StrategyImageURL   *string         `db:"strategy_image_url"`
	ExampleImages      models.Images   `db:"example_images"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

func (r strategyRow) model() (*models.Strategy, error) {
	strategy, err := models.RestoreStrategy(models.Strategy{
		ID:                 r.ID,
		Name:               r.Name,
		Description:        r.Description,
		Parameters:         r.Parameters,
		PerformanceMetrics: r.PerformanceMetrics,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}, r.StrategyImageURL, r.ExampleImages)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", r.ID, err)
	}
	return strategy, nil
}

func (s *StrategyStore) Create(ctx context.Context, tx Execer, st *models.Strategy) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO strategies (id, name, description, parameters, performance_metrics,
			strategy_image_url, example_images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, st.ID, st.Name, st.Description, st.Parameters, st.PerformanceMetrics,
		st.StrategyImage(), st.ExampleImages(), st.CreatedAt, st.UpdatedAt)
	return db.MapError(err)
}

func (s *StrategyStore) get(ctx context.Context, q Getter, query, strategyID string) (*models.Strategy, error) {
	var row strategyRow
	if err := q.GetContext(ctx, &row, query, strategyID); err != nil {
		return nil, db.MapError(err)
	}
	return row.model()
}

func (s *StrategyStore) GetByID(ctx context.Context, strategyID string) (*models.Strategy, error) {
	return s.get(ctx, s.db, `SELECT `+strategyColumns+` FROM strategies WHERE id = $1`, strategyID)
}

func (s *StrategyStore) GetForUpdate(ctx context.Context, tx Getter, strategyID string) (*models.Strategy, error) {
	return s.get(ctx, tx, `SELECT `+strategyColumns+` FROM strategies WHERE id = $1 FOR UPDATE`, strategyID)
}

func (s *StrategyStore) List(ctx context.Context, limit, offset int) ([]*models.Strategy, error) {
	var rows []strategyRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+strategyColumns+`
		FROM strategies
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, db.MapError(err)
	}
	strategies := make([]*models.Strategy, 0, len(rows))
	for _, row := range rows {
		strategy, err := row.model()
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, strategy)
	}
	return strategies, nil
}

func (s *StrategyStore) Update(ctx context.Context, tx Execer, st *models.Strategy) error {
	return execOne(ctx, tx, `
		UPDATE strategies
		SET name = $1, description = $2, parameters = $3, performance_metrics = $4,
			strategy_image_url = $5, example_images = $6, updated_at = $7
		WHERE id = $8
	`, st.Name, st.Description, st.Parameters, st.PerformanceMetrics,
		st.StrategyImage(), st.ExampleImages(), st.UpdatedAt, st.ID)
}

func (s *StrategyStore) Delete(ctx context.Context, tx Execer, strategyID string) error {
	return execOne(ctx, tx, `DELETE FROM strategies WHERE id = $1`, strategyID)
}
