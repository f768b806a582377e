package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/trackline/internal/db"
	"github.com/alexanderramin/trackline/internal/domain"
)

// maxTreeDepth bounds the recursive depth walk so a corrupt parent chain
// cannot run away.
const maxTreeDepth = 64

// SQLiteFeatureRepo implements FeatureRepo using a SQLite database.
type SQLiteFeatureRepo struct {
	db db.DBTX
}

// NewSQLiteFeatureRepo creates a new SQLiteFeatureRepo.
func NewSQLiteFeatureRepo(db db.DBTX) *SQLiteFeatureRepo {
	return &SQLiteFeatureRepo{db: db}
}

// featureSelect derives hierarchy_level from the parent chain and
// sub_features_count from the live child rows. Rows without a parent fall back
// to the stored legacy hints.
var featureSelect = fmt.Sprintf(`WITH RECURSIVE tree(id, depth) AS (
		SELECT id, 0 FROM features WHERE parent_id IS NULL
		UNION ALL
		SELECT c.id, t.depth + 1 FROM features c JOIN tree t ON c.parent_id = t.id
		WHERE t.depth < %d
	)
	SELECT f.id, f.project_id, f.parent_id, f.title, f.description, f.status, f.priority,
		f.order_index, f.start_date, f.end_date, f.due_date, f.estimated_hours, f.actual_hours,
		f.completed_at, f.created_at, f.updated_at,
		CASE WHEN f.parent_id IS NULL THEN f.legacy_level ELSE COALESCE(t.depth, 1) END,
		MAX((SELECT COUNT(*) FROM features k WHERE k.parent_id = f.id), f.legacy_sub_count)
	FROM features f LEFT JOIN tree t ON t.id = f.id`, maxTreeDepth)

func (r *SQLiteFeatureRepo) Create(ctx context.Context, f *domain.Feature) error {
	legacyLevel := 0
	if f.ParentID == nil {
		legacyLevel = f.HierarchyLevel
	}
	query := `INSERT INTO features (id, project_id, parent_id, title, description, status, priority,
		order_index, start_date, end_date, due_date, estimated_hours, actual_hours, completed_at,
		legacy_level, legacy_sub_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.ProjectID,
		nullableStringToValue(f.ParentID),
		f.Title,
		f.Description,
		string(f.Status),
		string(f.Priority),
		f.Order,
		nullableTimeToString(f.StartDate, dateLayout),
		nullableTimeToString(f.EndDate, dateLayout),
		nullableTimeToString(f.DueDate, dateLayout),
		nullableIntToValue(f.EstimatedHours),
		nullableIntToValue(f.ActualHours),
		nullableTimeToString(f.CompletedAt, time.RFC3339),
		legacyLevel,
		f.SubFeaturesCount,
		f.CreatedAt.UTC().Format(time.RFC3339),
		f.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting feature: %w", err)
	}
	return nil
}

func (r *SQLiteFeatureRepo) GetByID(ctx context.Context, id string) (*domain.Feature, error) {
	return r.scanFeature(r.db.QueryRowContext(ctx, featureSelect+` WHERE f.id = ?`, id))
}

func (r *SQLiteFeatureRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Feature, error) {
	query := featureSelect + ` WHERE f.project_id = ? ORDER BY f.order_index, f.created_at`
	return r.list(ctx, "listing features", query, projectID)
}

func (r *SQLiteFeatureRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Feature, error) {
	query := featureSelect + ` WHERE f.parent_id = ? ORDER BY f.order_index, f.created_at`
	return r.list(ctx, "listing child features", query, parentID)
}

// Update writes the editable columns. Legacy placement hints are only set on
// Create.
func (r *SQLiteFeatureRepo) Update(ctx context.Context, f *domain.Feature) error {
	query := `UPDATE features SET parent_id = ?, title = ?, description = ?, status = ?, priority = ?,
		order_index = ?, start_date = ?, end_date = ?, due_date = ?, estimated_hours = ?,
		actual_hours = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableStringToValue(f.ParentID),
		f.Title,
		f.Description,
		string(f.Status),
		string(f.Priority),
		f.Order,
		nullableTimeToString(f.StartDate, dateLayout),
		nullableTimeToString(f.EndDate, dateLayout),
		nullableTimeToString(f.DueDate, dateLayout),
		nullableIntToValue(f.EstimatedHours),
		nullableIntToValue(f.ActualHours),
		nullableTimeToString(f.CompletedAt, time.RFC3339),
		f.UpdatedAt.UTC().Format(time.RFC3339),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating feature: %w", err)
	}
	return requireAffected(res, "feature")
}

// UpdateDates replaces both schedule dates without touching other columns.
func (r *SQLiteFeatureRepo) UpdateDates(ctx context.Context, id string, start, end *time.Time) error {
	query := `UPDATE features SET start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(start, dateLayout),
		nullableTimeToString(end, dateLayout),
		nowUTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating feature dates: %w", err)
	}
	return requireAffected(res, "feature")
}

func (r *SQLiteFeatureRepo) CountChildren(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM features WHERE parent_id = ?`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting child features: %w", err)
	}
	return n, nil
}

func (r *SQLiteFeatureRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM features WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting feature: %w", err)
	}
	return requireAffected(res, "feature")
}

func (r *SQLiteFeatureRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.Feature, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var features []*domain.Feature
	for rows.Next() {
		f, err := r.scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating features: %w", err)
	}
	return features, nil
}

func (r *SQLiteFeatureRepo) scanFeature(row rowScanner) (*domain.Feature, error) {
	var f domain.Feature
	var statusStr, priorityStr, createdAtStr, updatedAtStr string
	var parentID, startStr, endStr, dueStr, completedStr sql.NullString
	var estimated, actual sql.NullInt64

	err := row.Scan(
		&f.ID, &f.ProjectID, &parentID, &f.Title, &f.Description, &statusStr, &priorityStr,
		&f.Order, &startStr, &endStr, &dueStr, &estimated, &actual,
		&completedStr, &createdAtStr, &updatedAtStr,
		&f.HierarchyLevel, &f.SubFeaturesCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("feature: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning feature: %w", err)
	}

	f.ParentID = parseNullableString(parentID)
	f.Status = domain.FeatureStatus(statusStr)
	f.Priority = domain.FeaturePriority(priorityStr)
	f.StartDate = parseNullableTime(startStr, dateLayout)
	f.EndDate = parseNullableTime(endStr, dateLayout)
	f.DueDate = parseNullableTime(dueStr, dateLayout)
	f.EstimatedHours = parseNullableInt(estimated)
	f.ActualHours = parseNullableInt(actual)
	f.CompletedAt = parseNullableTime(completedStr, time.RFC3339)

	f.CreatedAt, f.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing feature timestamps: %w", err)
	}
	return &f, nil
}
