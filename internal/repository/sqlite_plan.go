package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/braindump/internal/db"
	"github.com/alexanderramin/braindump/internal/domain"
)

const planColumns = `id, owner_id, brain_dump, mode, time_available, energy_level, focus_area,
		budget_min, allocated_min, max_tasks, created_at, updated_at`

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

// Create inserts the plan header. Tasks are written by PlanTaskRepo.
func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.OwnerID,
		p.BrainDump,
		string(p.Constraints.Mode),
		string(p.Constraints.TimeAvailable),
		string(p.Constraints.EnergyLevel),
		p.Constraints.FocusArea,
		p.BudgetMin,
		p.AllocatedMin,
		p.MaxTasks,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err != nil {
		return nil, err
	}
	tasks, err := NewSQLitePlanTaskRepo(r.db).ListByPlan(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Tasks = tasks
	return p, nil
}

func (r *SQLitePlanRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE owner_id = ?
		ORDER BY created_at DESC, rowid DESC`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

// ListWithTasks returns the owner's plans, newest first, each with tasks.
func (r *SQLitePlanRepo) ListWithTasks(ctx context.Context, ownerID string, limit int) ([]*domain.Plan, error) {
	plans, err := r.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	taskRepo := NewSQLitePlanTaskRepo(r.db)
	for _, p := range plans {
		if p.Tasks, err = taskRepo.ListByPlan(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (r *SQLitePlanRepo) LatestByOwner(ctx context.Context, ownerID string) (*domain.Plan, error) {
	plans, err := r.ListByOwner(ctx, ownerID, 1)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("latest plan: %w", ErrNotFound)
	}
	return r.GetByID(ctx, plans[0].ID)
}

func (r *SQLitePlanRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM plans WHERE id = ?`, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("plan: %w", ErrNotFound)
		}
		return "", fmt.Errorf("loading plan owner: %w", err)
	}
	return owner, nil
}

// Touch bumps updated_at after a task mutation.
func (r *SQLitePlanRepo) Touch(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE plans SET updated_at = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("touching plan: %w", err)
	}
	return checkAffected(res, "plan")
}

// Delete removes the plan; its tasks go with it through the foreign key.
func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return checkAffected(res, "plan")
}

func scanPlan(row rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var mode, timeAvail, energy, createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.OwnerID, &p.BrainDump,
		&mode, &timeAvail, &energy, &p.Constraints.FocusArea,
		&p.BudgetMin, &p.AllocatedMin, &p.MaxTasks,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	p.Constraints.Mode = domain.PlanMode(mode)
	p.Constraints.TimeAvailable = domain.TimeAvailable(timeAvail)
	p.Constraints.EnergyLevel = domain.EnergyLevel(energy)
	if p.CreatedAt, p.UpdatedAt, err = parseTimes(createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &p, nil
}
