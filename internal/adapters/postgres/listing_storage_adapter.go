package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KvizadSaderah/bg-real-estate-finder/internal/core/domain"
)

// PostgresListingSink реализует ListingSinkPort для PostgreSQL.
type PostgresListingSink struct {
	pool *pgxpool.Pool
}

// NewPostgresListingSink создает новый экземпляр адаптера.
func NewPostgresListingSink(pool *pgxpool.Pool) (*PostgresListingSink, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresListingSink{
		pool: pool,
	}, nil
}

// Save сохраняет одну запись в базу данных.
// ВАЖНО: используем ON CONFLICT DO UPDATE (UPSERT) по url — повторный запуск
// парсера обновляет существующие строки, а не плодит дубликаты.
func (a *PostgresListingSink) Save(ctx context.Context, record domain.ListingRecord) error {
	columns := []string{
		"url", "title", "price", "currency", "location", "area_m2",
		"bedrooms", "bathrooms", "agent", "phone", "description", "scraped_at",
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	values := []interface{}{
		record.URL, record.Title, record.Price, record.Currency, record.Location, record.AreaM2,
		record.Bedrooms, record.Bathrooms, record.Agent, record.Phone, record.Description, record.ScrapedAt,
	}

	updates := make([]string, 0, len(columns)-1)
	for _, col := range columns[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	sql := fmt.Sprintf(
		`INSERT INTO listings (%s) VALUES (%s) ON CONFLICT (url) DO UPDATE SET %s`,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	if _, err := a.pool.Exec(ctx, sql, values...); err != nil {
		return fmt.Errorf("failed to insert listing record into db (url: %s): %w", record.URL, err)
	}

	return nil
}

// Close — пул соединений принадлежит приложению и закрывается им,
// поэтому здесь ничего закрывать не нужно.
func (a *PostgresListingSink) Close() error {
	return nil
}
