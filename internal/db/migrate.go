package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id              TEXT PRIMARY KEY,
		owner_id        TEXT NOT NULL,
		brain_dump      TEXT NOT NULL DEFAULT '',
		mode            TEXT NOT NULL CHECK(mode IN ('today','week')),
		time_available  TEXT NOT NULL CHECK(time_available IN ('low','medium','high')),
		energy_level    TEXT NOT NULL CHECK(energy_level IN ('drained','ok','fired_up')),
		focus_area      TEXT NOT NULL DEFAULT '',
		budget_min      INTEGER NOT NULL DEFAULT 0,
		allocated_min   INTEGER NOT NULL DEFAULT 0,
		max_tasks       INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_owner_created ON plans(owner_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS plan_tasks (
		id              TEXT PRIMARY KEY,
		plan_id         TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		candidate_id    TEXT NOT NULL DEFAULT '',
		title           TEXT NOT NULL,
		display_title   TEXT NOT NULL DEFAULT '',
		time_estimate   TEXT NOT NULL DEFAULT '',
		context         TEXT NOT NULL DEFAULT '',
		effort          TEXT NOT NULL DEFAULT '',
		urgency         TEXT NOT NULL DEFAULT '',
		deadline        TEXT,
		category        TEXT NOT NULL DEFAULT '',
		score           REAL NOT NULL DEFAULT 0,
		rank            INTEGER NOT NULL DEFAULT 0,
		section         TEXT NOT NULL CHECK(section IN ('do_first','this_week','not_this_week')),
		status          TEXT NOT NULL DEFAULT 'open' CHECK(status IN ('open','done')),
		completed_at    TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_tasks_plan ON plan_tasks(plan_id, rank)`,

	// Added after the first release; older databases get the column here.
	`ALTER TABLE plan_tasks ADD COLUMN estimated_min INTEGER NOT NULL DEFAULT 0`,
}
