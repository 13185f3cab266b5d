package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
	"github.com/cehpoint-official/bolpur-mart/internal/event"
	"github.com/cehpoint-official/bolpur-mart/internal/repository"
	apperrors "github.com/cehpoint-official/bolpur-mart/pkg/errors"
)

// TimeRuleService implements the admin write side of the time-slot rule
// configuration.
type TimeRuleService struct {
	repo     repository.TimeRuleRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewTimeRuleService creates a new time rule service.
func NewTimeRuleService(repo repository.TimeRuleRepository, producer *event.Producer, logger *slog.Logger) *TimeRuleService {
	return &TimeRuleService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// ListRules returns the full rule snapshot in resolution order.
func (s *TimeRuleService) ListRules(ctx context.Context) ([]domain.TimeSlotRule, error) {
	rules, err := s.repo.GetTimeRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time rules: %w", err)
	}
	if rules == nil {
		rules = []domain.TimeSlotRule{}
	}
	return rules, nil
}

// UpsertRuleInput holds the parameters for creating or replacing a rule.
type UpsertRuleInput struct {
	DisplayName       string
	StartTime         string
	EndTime           string
	IsActive          bool
	SortOrder         int
	AllowedCategories []domain.CategoryRef
}

// UpsertRule creates or replaces the rule with the given slot ID. Times must
// parse as HH:MM; a start equal to end is accepted but matches nothing, which
// effectively disables the slot without deleting its configuration.
func (s *TimeRuleService) UpsertRule(ctx context.Context, slotID string, input *UpsertRuleInput) (*domain.TimeSlotRule, error) {
	if slotID == "" {
		return nil, apperrors.InvalidInput("slot id is required")
	}
	start, err := domain.ParseClock(input.StartTime)
	if err != nil {
		return nil, apperrors.InvalidInput("start_time must be HH:MM")
	}
	end, err := domain.ParseClock(input.EndTime)
	if err != nil {
		return nil, apperrors.InvalidInput("end_time must be HH:MM")
	}
	if err := validateCategoryRefs(input.AllowedCategories); err != nil {
		return nil, err
	}

	if start == end {
		s.logger.WarnContext(ctx, "time rule has a zero-width window and will never activate",
			slog.String("slot_id", slotID),
			slog.String("start_time", input.StartTime),
		)
	}

	rule := &domain.TimeSlotRule{
		SlotID:            slotID,
		DisplayName:       input.DisplayName,
		StartTime:         input.StartTime,
		EndTime:           input.EndTime,
		IsActive:          input.IsActive,
		SortOrder:         input.SortOrder,
		AllowedCategories: dedupeCategories(input.AllowedCategories),
	}

	if err := s.repo.Upsert(ctx, rule); err != nil {
		return nil, fmt.Errorf("upsert time rule: %w", err)
	}

	if err := s.producer.PublishTimeRulesUpdated(ctx, slotID, false); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish timerules.updated event",
			slog.String("slot_id", slotID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "time rule upserted",
		slog.String("slot_id", slotID),
		slog.String("window", input.StartTime+"-"+input.EndTime),
		slog.Bool("is_active", input.IsActive),
	)

	return rule, nil
}

// DeleteRule removes the rule with the given slot ID.
func (s *TimeRuleService) DeleteRule(ctx context.Context, slotID string) error {
	if err := s.repo.Delete(ctx, slotID); err != nil {
		return fmt.Errorf("delete time rule: %w", err)
	}

	if err := s.producer.PublishTimeRulesUpdated(ctx, slotID, true); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish timerules.updated event",
			slog.String("slot_id", slotID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "time rule deleted",
		slog.String("slot_id", slotID),
	)

	return nil
}
