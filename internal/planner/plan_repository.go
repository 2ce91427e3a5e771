package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StoredPlan is one persisted plan artifact.
type StoredPlan struct {
	ID        int64
	UserID    string
	PlanData  []byte // Raw JSON of the PlanArtifact
	CreatedAt time.Time
}

// PlanRepository is a database-backed history of generated plan artifacts.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a new plan artifact for the given user.
func (r *PlanRepository) Save(ctx context.Context, userID string, planData []byte) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, plan_data, created_at) VALUES (?, ?, ?)`,
		userID, string(planData), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to save meal plan for user %s: %w", userID, err)
	}
	return res.LastInsertId()
}

// ListRecentByUserID retrieves the N most recent plans for a user, newest first.
func (r *PlanRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, plan_data, created_at FROM meal_plans
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var p StoredPlan
		var data string
		if err := rows.Scan(&p.ID, &p.UserID, &data, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		p.PlanData = []byte(data)
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
