package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/braindump/internal/db"
	"github.com/alexanderramin/braindump/internal/domain"
)

// planTaskColumns is the canonical column list for plan_tasks.
const planTaskColumns = `id, plan_id, candidate_id, title, display_title, time_estimate, context,
		effort, urgency, deadline, category, estimated_min, score, rank, section, status,
		completed_at, created_at, updated_at`

// SQLitePlanTaskRepo implements PlanTaskRepo using a SQLite database.
type SQLitePlanTaskRepo struct {
	db db.DBTX
}

func NewSQLitePlanTaskRepo(conn db.DBTX) *SQLitePlanTaskRepo {
	return &SQLitePlanTaskRepo{db: conn}
}

// CreateBatch inserts tasks in order. Callers wrap it in a unit of work so a
// failing row leaves no partial plan behind.
func (r *SQLitePlanTaskRepo) CreateBatch(ctx context.Context, tasks []domain.PlanTask) error {
	query := `INSERT INTO plan_tasks (` + planTaskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range tasks {
		t := &tasks[i]
		_, err := r.db.ExecContext(ctx, query,
			t.ID,
			t.PlanID,
			t.CandidateID,
			t.Title,
			t.DisplayTitle,
			t.TimeEstimate,
			t.Context,
			string(t.Effort),
			string(t.Urgency),
			nullableTimeToString(t.Deadline),
			t.Category,
			t.EstimatedMin,
			t.Score,
			t.Rank,
			string(t.Section),
			string(t.Status),
			nullableTimeToString(t.CompletedAt),
			formatTime(t.CreatedAt),
			formatTime(t.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting plan task %d (%s): %w", i, t.Title, err)
		}
	}
	return nil
}

func (r *SQLitePlanTaskRepo) GetByID(ctx context.Context, id string) (*domain.PlanTask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planTaskColumns+` FROM plan_tasks WHERE id = ?`, id)
	t, err := scanPlanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan task: %w", ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *SQLitePlanTaskRepo) ListByPlan(ctx context.Context, planID string) ([]domain.PlanTask, error) {
	query := `SELECT ` + planTaskColumns + ` FROM plan_tasks WHERE plan_id = ? ORDER BY rank, rowid`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing plan tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.PlanTask
	for rows.Next() {
		t, err := scanPlanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan tasks: %w", err)
	}
	return tasks, nil
}

// Update writes the mutable fields of a task.
func (r *SQLitePlanTaskRepo) Update(ctx context.Context, t *domain.PlanTask) error {
	query := `UPDATE plan_tasks SET display_title = ?, section = ?, status = ?,
		completed_at = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.DisplayTitle,
		string(t.Section),
		string(t.Status),
		nullableTimeToString(t.CompletedAt),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan task: %w", err)
	}
	return checkAffected(res, "plan task")
}

func (r *SQLitePlanTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plan_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan task: %w", err)
	}
	return checkAffected(res, "plan task")
}

// scanPlanTask scans one row. sql.ErrNoRows is returned unwrapped so
// GetByID can map it to ErrNotFound.
func scanPlanTask(row rowScanner) (*domain.PlanTask, error) {
	var t domain.PlanTask
	var effort, urgency, section, status, createdAtStr, updatedAtStr string
	var deadlineStr, completedAtStr sql.NullString

	err := row.Scan(
		&t.ID, &t.PlanID, &t.CandidateID, &t.Title, &t.DisplayTitle, &t.TimeEstimate, &t.Context,
		&effort, &urgency, &deadlineStr, &t.Category, &t.EstimatedMin, &t.Score, &t.Rank,
		&section, &status, &completedAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan task: %w", err)
	}

	t.Effort = domain.Effort(effort)
	t.Urgency = domain.Urgency(urgency)
	t.Section = domain.Section(section)
	t.Status = domain.TaskStatus(status)
	t.Deadline = parseNullableTime(deadlineStr)
	t.CompletedAt = parseNullableTime(completedAtStr)
	if t.CreatedAt, t.UpdatedAt, err = parseTimes(createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &t, nil
}
