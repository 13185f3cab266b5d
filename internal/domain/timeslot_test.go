package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ClockMinutes
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "06:30", want: 390},
		{name: "last minute of day", input: "23:59", want: 1439},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "missing colon", input: "12.30", wantErr: true},
		{name: "too short", input: "9:30", wantErr: true},
		{name: "trailing garbage", input: "12:30pm", wantErr: true},
		{name: "non-numeric minutes", input: "12:3x", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestClockFromTime(t *testing.T) {
	instant := time.Date(2026, 3, 15, 14, 45, 59, 0, time.UTC)
	assert.Equal(t, ClockMinutes(14*60+45), ClockFromTime(instant))
}

func TestTimeSlotRuleContains(t *testing.T) {
	at := func(s string) ClockMinutes {
		c, err := ParseClock(s)
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name  string
		rule  TimeSlotRule
		now   string
		wants bool
	}{
		{
			name:  "inside plain window",
			rule:  TimeSlotRule{StartTime: "06:00", EndTime: "12:00"},
			now:   "08:30",
			wants: true,
		},
		{
			name:  "start is inclusive",
			rule:  TimeSlotRule{StartTime: "06:00", EndTime: "12:00"},
			now:   "06:00",
			wants: true,
		},
		{
			name:  "end is exclusive",
			rule:  TimeSlotRule{StartTime: "06:00", EndTime: "12:00"},
			now:   "12:00",
			wants: false,
		},
		{
			name:  "before plain window",
			rule:  TimeSlotRule{StartTime: "06:00", EndTime: "12:00"},
			now:   "05:59",
			wants: false,
		},
		{
			name:  "overnight window late evening",
			rule:  TimeSlotRule{StartTime: "22:00", EndTime: "06:00"},
			now:   "23:30",
			wants: true,
		},
		{
			name:  "overnight window after midnight",
			rule:  TimeSlotRule{StartTime: "22:00", EndTime: "06:00"},
			now:   "02:00",
			wants: true,
		},
		{
			name:  "overnight window midday gap",
			rule:  TimeSlotRule{StartTime: "22:00", EndTime: "06:00"},
			now:   "12:00",
			wants: false,
		},
		{
			name:  "overnight end is exclusive",
			rule:  TimeSlotRule{StartTime: "22:00", EndTime: "06:00"},
			now:   "06:00",
			wants: false,
		},
		{
			name:  "zero-width window never matches",
			rule:  TimeSlotRule{StartTime: "09:00", EndTime: "09:00"},
			now:   "09:00",
			wants: false,
		},
		{
			name:  "malformed start never matches",
			rule:  TimeSlotRule{StartTime: "9am", EndTime: "12:00"},
			now:   "10:00",
			wants: false,
		},
		{
			name:  "malformed end never matches",
			rule:  TimeSlotRule{StartTime: "06:00", EndTime: "noon!"},
			now:   "10:00",
			wants: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wants, tt.rule.Contains(at(tt.now)))
		})
	}
}

func TestResolveCurrentSlot(t *testing.T) {
	rules := []TimeSlotRule{
		{SlotID: "breakfast", StartTime: "06:00", EndTime: "11:00", IsActive: true},
		{SlotID: "brunch", StartTime: "09:00", EndTime: "14:00", IsActive: true},
		{SlotID: "night", StartTime: "22:00", EndTime: "06:00", IsActive: true},
	}

	t.Run("single match", func(t *testing.T) {
		slot, ok := ResolveCurrentSlot(rules, ClockMinutes(7*60))
		require.True(t, ok)
		assert.Equal(t, "breakfast", slot)
	})

	t.Run("overlap resolves to first listed rule", func(t *testing.T) {
		slot, ok := ResolveCurrentSlot(rules, ClockMinutes(10*60))
		require.True(t, ok)
		assert.Equal(t, "breakfast", slot)
	})

	t.Run("overnight rule matches after midnight", func(t *testing.T) {
		slot, ok := ResolveCurrentSlot(rules, ClockMinutes(2*60))
		require.True(t, ok)
		assert.Equal(t, "night", slot)
	})

	t.Run("no window active", func(t *testing.T) {
		slot, ok := ResolveCurrentSlot(rules, ClockMinutes(16*60))
		assert.False(t, ok)
		assert.Empty(t, slot)
	})

	t.Run("inactive rules are skipped", func(t *testing.T) {
		inactive := []TimeSlotRule{
			{SlotID: "breakfast", StartTime: "06:00", EndTime: "11:00", IsActive: false},
			{SlotID: "brunch", StartTime: "09:00", EndTime: "14:00", IsActive: true},
		}
		slot, ok := ResolveCurrentSlot(inactive, ClockMinutes(10*60))
		require.True(t, ok)
		assert.Equal(t, "brunch", slot)
	})

	t.Run("malformed rule does not block later rules", func(t *testing.T) {
		mixed := []TimeSlotRule{
			{SlotID: "broken", StartTime: "6am", EndTime: "11:00", IsActive: true},
			{SlotID: "brunch", StartTime: "09:00", EndTime: "14:00", IsActive: true},
		}
		slot, ok := ResolveCurrentSlot(mixed, ClockMinutes(10*60))
		require.True(t, ok)
		assert.Equal(t, "brunch", slot)
	})

	t.Run("empty rule list", func(t *testing.T) {
		_, ok := ResolveCurrentSlot(nil, ClockMinutes(10*60))
		assert.False(t, ok)
	})
}

func TestSlotCategories(t *testing.T) {
	rules := []TimeSlotRule{
		{
			SlotID: "morning",
			AllowedCategories: []CategoryRef{
				{ID: "cat-veg", Name: "Vegetables"},
				{ID: "cat-dairy", Name: "Dairy"},
			},
		},
		{SlotID: "empty-slot"},
	}

	t.Run("known slot", func(t *testing.T) {
		got := SlotCategories(rules, "morning")
		require.Len(t, got, 2)
		assert.Equal(t, "cat-veg", got[0].ID)
		assert.Equal(t, "cat-dairy", got[1].ID)
	})

	t.Run("slot with no categories", func(t *testing.T) {
		assert.Empty(t, SlotCategories(rules, "empty-slot"))
	})

	t.Run("unknown slot", func(t *testing.T) {
		assert.Empty(t, SlotCategories(rules, "evening"))
	})

	t.Run("empty slot id", func(t *testing.T) {
		assert.Empty(t, SlotCategories(rules, ""))
	})
}

func TestMalformedRules(t *testing.T) {
	rules := []TimeSlotRule{
		{SlotID: "good", StartTime: "06:00", EndTime: "12:00"},
		{SlotID: "bad-start", StartTime: "6:00", EndTime: "12:00"},
		{SlotID: "bad-end", StartTime: "06:00", EndTime: "25:00"},
	}
	assert.Equal(t, []string{"bad-start", "bad-end"}, MalformedRules(rules))
	assert.Nil(t, MalformedRules(rules[:1]))
}
