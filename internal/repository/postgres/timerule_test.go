package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
	"github.com/cehpoint-official/bolpur-mart/pkg/database"
	apperrors "github.com/cehpoint-official/bolpur-mart/pkg/errors"
)

func setupTimeRuleRepo(t *testing.T) (*TimeRuleRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewTimeRuleRepository(mock)
	return repo, mock
}

func timeRuleColumnNames() []string {
	return []string{
		"slot_id", "display_name", "start_time", "end_time",
		"is_active", "sort_order", "allowed_categories",
	}
}

func TestTimeRuleRepository_GetTimeRules(t *testing.T) {
	repo, mock := setupTimeRuleRepo(t)
	defer mock.Close()

	morningCategories, _ := json.Marshal([]domain.CategoryRef{
		{ID: "cat-veg", Name: "Vegetables"},
	})

	rows := pgxmock.NewRows(timeRuleColumnNames()).
		AddRow("morning", "Morning Essentials", "06:00", "12:00", true, 1, morningCategories).
		AddRow("night", "Late Night", "22:00", "06:00", true, 2, []byte(nil))

	mock.ExpectQuery("SELECT (.+) FROM time_slot_rules").
		WillReturnRows(rows)

	rules, err := repo.GetTimeRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "morning", rules[0].SlotID)
	assert.Equal(t, "06:00", rules[0].StartTime)
	require.Len(t, rules[0].AllowedCategories, 1)
	assert.Equal(t, "cat-veg", rules[0].AllowedCategories[0].ID)

	assert.Equal(t, "night", rules[1].SlotID)
	assert.Nil(t, rules[1].AllowedCategories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeRuleRepository_GetTimeRules_CorruptCategories(t *testing.T) {
	repo, mock := setupTimeRuleRepo(t)
	defer mock.Close()

	rows := pgxmock.NewRows(timeRuleColumnNames()).
		AddRow("morning", "Morning Essentials", "06:00", "12:00", true, 1, []byte("{broken"))

	mock.ExpectQuery("SELECT (.+) FROM time_slot_rules").
		WillReturnRows(rows)

	rules, err := repo.GetTimeRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Nil(t, rules[0].AllowedCategories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeRuleRepository_GetTimeRules_QueryError(t *testing.T) {
	repo, mock := setupTimeRuleRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM time_slot_rules").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.GetTimeRules(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "list time rules")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeRuleRepository_Upsert(t *testing.T) {
	repo, mock := setupTimeRuleRepo(t)
	defer mock.Close()

	rule := &domain.TimeSlotRule{
		SlotID:      "morning",
		DisplayName: "Morning Essentials",
		StartTime:   "06:00",
		EndTime:     "12:00",
		IsActive:    true,
		SortOrder:   1,
		AllowedCategories: []domain.CategoryRef{
			{ID: "cat-veg", Name: "Vegetables"},
		},
	}
	categoriesJSON, _ := json.Marshal(rule.AllowedCategories)

	mock.ExpectExec("INSERT INTO time_slot_rules").
		WithArgs(
			rule.SlotID, rule.DisplayName, rule.StartTime, rule.EndTime,
			rule.IsActive, rule.SortOrder, categoriesJSON, pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Upsert(context.Background(), rule))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeRuleRepository_Delete(t *testing.T) {
	repo, mock := setupTimeRuleRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM time_slot_rules").
		WithArgs("morning").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), "morning"))

	mock.ExpectExec("DELETE FROM time_slot_rules").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
