package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
	apperrors "github.com/cehpoint-official/bolpur-mart/pkg/errors"
	"github.com/cehpoint-official/bolpur-mart/pkg/database"
)

// TimeRuleRepository implements repository.TimeRuleRepository using PostgreSQL.
type TimeRuleRepository struct {
	pool database.DBTX
}

// NewTimeRuleRepository creates a new PostgreSQL-backed time rule repository.
func NewTimeRuleRepository(pool database.DBTX) *TimeRuleRepository {
	return &TimeRuleRepository{pool: pool}
}

const timeRuleColumns = `slot_id, display_name, start_time, end_time, is_active, sort_order, allowed_categories`

// GetTimeRules returns the full rule snapshot ordered by sort_order then
// slot_id. This ordering is the documented first-match tie-break for
// overlapping windows, so it must stay deterministic.
func (r *TimeRuleRepository) GetTimeRules(ctx context.Context) ([]domain.TimeSlotRule, error) {
	query := `
		SELECT ` + timeRuleColumns + `
		FROM time_slot_rules
		ORDER BY sort_order, slot_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list time rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.TimeSlotRule
	for rows.Next() {
		var (
			rule           domain.TimeSlotRule
			categoriesJSON []byte
		)
		if err := rows.Scan(
			&rule.SlotID,
			&rule.DisplayName,
			&rule.StartTime,
			&rule.EndTime,
			&rule.IsActive,
			&rule.SortOrder,
			&categoriesJSON,
		); err != nil {
			return nil, fmt.Errorf("scan time rule: %w", err)
		}

		if len(categoriesJSON) > 0 {
			if err := json.Unmarshal(categoriesJSON, &rule.AllowedCategories); err != nil {
				// A rule with a corrupt category document still participates
				// in slot resolution, it just allows nothing.
				rule.AllowedCategories = nil
			}
		}

		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time rules: %w", err)
	}

	return rules, nil
}

// Upsert creates or replaces the rule with the given slot ID.
func (r *TimeRuleRepository) Upsert(ctx context.Context, rule *domain.TimeSlotRule) error {
	categoriesJSON, err := json.Marshal(rule.AllowedCategories)
	if err != nil {
		return fmt.Errorf("marshal allowed categories: %w", err)
	}

	query := `
		INSERT INTO time_slot_rules (slot_id, display_name, start_time, end_time, is_active, sort_order, allowed_categories, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slot_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_active = EXCLUDED.is_active,
			sort_order = EXCLUDED.sort_order,
			allowed_categories = EXCLUDED.allowed_categories,
			updated_at = EXCLUDED.updated_at`

	_, err = r.pool.Exec(ctx, query,
		rule.SlotID,
		rule.DisplayName,
		rule.StartTime,
		rule.EndTime,
		rule.IsActive,
		rule.SortOrder,
		categoriesJSON,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert time rule: %w", err)
	}

	return nil
}

// Delete removes the rule with the given slot ID.
func (r *TimeRuleRepository) Delete(ctx context.Context, slotID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM time_slot_rules WHERE slot_id = $1`, slotID)
	if err != nil {
		return fmt.Errorf("delete time rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("time rule", slotID)
	}
	return nil
}
