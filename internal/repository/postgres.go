package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"insurebot/internal/model"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrPlanNotFound is returned when a plan id is not in the catalog
var ErrPlanNotFound = errors.New("plan not found")

// ErrNoEmbedding is returned when a plan has no stored embedding vector
var ErrNoEmbedding = errors.New("plan has no embedding")

const insertBatchSize = 500

var planColumns = []string{
	"id", "title", "company", "type", "price", "score", "features", "details", "starred",
}

// PostgresRepository handles catalog persistence in PostgreSQL with pgvector
type PostgresRepository struct {
	db        *sqlx.DB
	logger    *zap.Logger
	dimension int
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn, dimension int, logger *zap.Logger) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db, logger: logger, dimension: dimension}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Migrate applies the embedded schema migrations
func (r *PostgresRepository) Migrate() error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(r.db.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrationLogger{logger: r.logger}

	// m.Close is not called: it would close the shared *sql.DB.
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.logger.Info("No new migrations to apply")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	r.logger.Info("Successfully applied migrations")
	return nil
}

// Exists reports whether the catalog table holds any plans
func (r *PostgresRepository) Exists(ctx context.Context) (bool, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("plans")

	query, args := sb.Build()
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to count plans: %w", err)
	}
	return count > 0, nil
}

// LoadPlans reads every plan in ingestion order
func (r *PostgresRepository) LoadPlans(ctx context.Context) ([]model.Plan, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(planColumns...)
	sb.From("plans")
	sb.OrderBy("ingest_index").Asc()

	query, args := sb.Build()
	var plans []model.Plan
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch plans: %w", err)
	}
	return plans, nil
}

// ReplacePlans deletes the whole catalog and inserts plans in one transaction
func (r *PostgresRepository) ReplacePlans(ctx context.Context, plans []model.Plan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	del := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	del.DeleteFrom("plans")
	query, args := del.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear plans: %w", err)
	}

	for start := 0; start < len(plans); start += insertBatchSize {
		end := min(start+insertBatchSize, len(plans))

		ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
		ib.InsertInto("plans")
		ib.Cols(append([]string{"ingest_index"}, planColumns...)...)
		for i, p := range plans[start:end] {
			ib.Values(start+i, p.ID, p.Title, p.Company, p.Type, p.Price, p.Score, p.Features, p.Details, p.Starred)
		}

		query, args := ib.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert plans %d-%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// BatchUpdateEmbeddings updates embeddings for multiple plans
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	for _, item := range items {
		if r.dimension > 0 && len(item.Embedding) != r.dimension {
			errs = append(errs, fmt.Sprintf("plan_id %s: embedding has %d dimensions, want %d", item.PlanID, len(item.Embedding), r.dimension))
			continue
		}

		ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
		ub.Update("plans")
		ub.Set(
			ub.Assign("embedding", pgvector.NewVector(item.Embedding)),
			"updated_at = NOW()",
		)
		ub.Where(ub.Equal("id", item.PlanID))

		query, args := ub.Build()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			errs = append(errs, fmt.Sprintf("plan_id %s: %v", item.PlanID, err))
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			errs = append(errs, fmt.Sprintf("plan_id %s: %v", item.PlanID, ErrPlanNotFound))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}

// SimilarPlans returns the plans closest to planID by cosine distance
func (r *PostgresRepository) SimilarPlans(ctx context.Context, planID string, limit int) ([]model.SimilarPlan, error) {
	var hasEmbedding bool
	err := r.db.GetContext(ctx, &hasEmbedding, `SELECT embedding IS NOT NULL FROM plans WHERE id = $1`, planID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up plan: %w", err)
	}
	if !hasEmbedding {
		return nil, ErrNoEmbedding
	}

	query := `
		SELECT
			p.id, p.title, p.company, p.type, p.price, p.score,
			p.features, p.details, p.starred,
			p.embedding <=> ref.embedding AS distance
		FROM plans p, (SELECT embedding FROM plans WHERE id = $1) ref
		WHERE p.id <> $1 AND p.embedding IS NOT NULL
		ORDER BY distance ASC, p.ingest_index ASC
		LIMIT $2
	`
	var plans []model.SimilarPlan
	if err := r.db.SelectContext(ctx, &plans, query, planID, limit); err != nil {
		return nil, fmt.Errorf("failed to search similar plans: %w", err)
	}
	return plans, nil
}

// migrationLogger adapts zap to the migrate.Logger interface
type migrationLogger struct {
	logger *zap.Logger
}

func (l migrationLogger) Printf(format string, v ...interface{}) {
	l.logger.Sugar().Infof(format, v...)
}

func (l migrationLogger) Verbose() bool {
	return false
}
