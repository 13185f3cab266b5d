package domain

import (
	"fmt"
	"strconv"
	"time"
)

// ClockMinutes is a time-of-day value with minute granularity, counted from
// midnight (0 .. 1439). It has no date component.
type ClockMinutes int

const minutesPerDay = 24 * 60

// ParseClock parses an "HH:MM" string into a ClockMinutes value.
func ParseClock(s string) (ClockMinutes, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("parse clock %q: want HH:MM", s)
	}
	hh, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	mm, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return ClockMinutes(hh*60 + mm), nil
}

// ClockFromTime converts a wall-clock instant to its minute-of-day in the
// instant's location.
func ClockFromTime(t time.Time) ClockMinutes {
	return ClockMinutes(t.Hour()*60 + t.Minute())
}

// String formats the value back as "HH:MM".
func (c ClockMinutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// TimeSlotRule maps a named daily time window to the categories sellable
// while that window is active. Rules are configuration, administered out of
// band; the catalog core only reads them.
type TimeSlotRule struct {
	SlotID            string        `json:"slot_id"`
	DisplayName       string        `json:"display_name"`
	StartTime         string        `json:"start_time"`
	EndTime           string        `json:"end_time"`
	IsActive          bool          `json:"is_active"`
	SortOrder         int           `json:"sort_order"`
	AllowedCategories []CategoryRef `json:"allowed_categories"`
}

// Window parses the rule's start and end times.
func (r TimeSlotRule) Window() (start, end ClockMinutes, err error) {
	start, err = ParseClock(r.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseClock(r.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Contains reports whether now falls within the rule's half-open window
// [start, end). Windows where start > end cross midnight (e.g. 22:00-06:00).
// A zero-width window (start == end) never matches: it is a disabled slot,
// not a 24-hour one. Rules with unparseable times never match.
func (r TimeSlotRule) Contains(now ClockMinutes) bool {
	start, end, err := r.Window()
	if err != nil {
		return false
	}

	switch {
	case start == end:
		return false
	case start > end:
		// Crosses midnight.
		return now >= start || now < end
	default:
		return now >= start && now < end
	}
}

// ResolveCurrentSlot returns the slot ID of the first active rule whose
// window contains now, in the given iteration order. When windows overlap,
// first match wins; the store's ordering is the documented tie-break.
// Inactive rules and rules with malformed times are skipped, so one bad
// config entry cannot black out the whole catalog.
func ResolveCurrentSlot(rules []TimeSlotRule, now ClockMinutes) (string, bool) {
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		if rule.Contains(now) {
			return rule.SlotID, true
		}
	}
	return "", false
}

// SlotCategories returns the allowed categories of the rule with the given
// slot ID, in configured order. An unknown or empty slot ID yields an empty
// list: outside any configured window nothing is sellable.
func SlotCategories(rules []TimeSlotRule, slotID string) []CategoryRef {
	if slotID == "" {
		return []CategoryRef{}
	}
	for _, rule := range rules {
		if rule.SlotID == slotID {
			if rule.AllowedCategories == nil {
				return []CategoryRef{}
			}
			return rule.AllowedCategories
		}
	}
	return []CategoryRef{}
}

// MalformedRules returns the slot IDs of rules whose time strings do not
// parse. Used at the configuration load boundary to report bad entries
// without aborting resolution.
func MalformedRules(rules []TimeSlotRule) []string {
	var bad []string
	for _, rule := range rules {
		if _, _, err := rule.Window(); err != nil {
			bad = append(bad, rule.SlotID)
		}
	}
	return bad
}
