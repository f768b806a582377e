package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/trackline/internal/db"
	"github.com/alexanderramin/trackline/internal/domain"
)

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(db db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: db}
}

func (r *SQLiteDependencyRepo) Add(ctx context.Context, d domain.Dependency) error {
	query := `INSERT INTO feature_dependencies (feature_id, depends_on_id, created_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, d.FeatureID, d.DependsOnID, nowUTC())
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) Remove(ctx context.Context, featureID, dependsOnID string) error {
	query := `DELETE FROM feature_dependencies WHERE feature_id = ? AND depends_on_id = ?`
	res, err := r.db.ExecContext(ctx, query, featureID, dependsOnID)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return requireAffected(res, "dependency")
}

// ListForFeature returns the edges where featureID is the dependent side.
func (r *SQLiteDependencyRepo) ListForFeature(ctx context.Context, featureID string) ([]domain.Dependency, error) {
	query := `SELECT feature_id, depends_on_id FROM feature_dependencies
		WHERE feature_id = ? ORDER BY created_at, depends_on_id`
	rows, err := r.db.QueryContext(ctx, query, featureID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

// ListDependents returns the edges that point at featureID.
func (r *SQLiteDependencyRepo) ListDependents(ctx context.Context, featureID string) ([]domain.Dependency, error) {
	query := `SELECT feature_id, depends_on_id FROM feature_dependencies
		WHERE depends_on_id = ? ORDER BY created_at, feature_id`
	rows, err := r.db.QueryContext(ctx, query, featureID)
	if err != nil {
		return nil, fmt.Errorf("listing dependents: %w", err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	query := `SELECT d.feature_id, d.depends_on_id
		FROM feature_dependencies d
		JOIN features f ON f.id = d.feature_id
		WHERE f.project_id = ?
		ORDER BY d.created_at, d.feature_id, d.depends_on_id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project dependencies: %w", err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) scanDependencies(rows *sql.Rows) ([]domain.Dependency, error) {
	var deps []domain.Dependency
	for rows.Next() {
		var d domain.Dependency
		if err := rows.Scan(&d.FeatureID, &d.DependsOnID); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}
