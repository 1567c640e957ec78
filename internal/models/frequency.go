package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// FrequencyKind discriminates the FrequencyConfig variants
type FrequencyKind string

const (
	FrequencyDaily        FrequencyKind = "daily"
	FrequencyWeekly       FrequencyKind = "weekly"
	FrequencyMonthly      FrequencyKind = "monthly"
	FrequencySpecificDays FrequencyKind = "specific_days"
)

// FrequencyConfig describes how often a habit should be performed.
//
// Count is used by daily (times per day), weekly (times per week) and
// monthly (times per month). Days is used by specific_days only and holds
// time.Weekday values (0 = Sunday).
type FrequencyConfig struct {
	Kind  FrequencyKind
	Count int
	Days  []time.Weekday
}

// DailyFrequency returns a config for count completions per day
func DailyFrequency(count int) FrequencyConfig {
	return FrequencyConfig{Kind: FrequencyDaily, Count: count}
}

// WeeklyFrequency returns a config for count completions per week
func WeeklyFrequency(count int) FrequencyConfig {
	return FrequencyConfig{Kind: FrequencyWeekly, Count: count}
}

// MonthlyFrequency returns a config for count completions per month
func MonthlyFrequency(count int) FrequencyConfig {
	return FrequencyConfig{Kind: FrequencyMonthly, Count: count}
}

// SpecificDaysFrequency returns a config for one completion on each listed weekday
func SpecificDaysFrequency(days ...time.Weekday) FrequencyConfig {
	return FrequencyConfig{Kind: FrequencySpecificDays, Days: days}
}

// Normalized fills in the zero value as once per day
func (f FrequencyConfig) Normalized() FrequencyConfig {
	if f.Kind == "" {
		f.Kind = FrequencyDaily
	}
	if f.Kind != FrequencySpecificDays && f.Count <= 0 {
		f.Count = 1
	}
	return f
}

// Validate checks that the variant carries the fields it needs
func (f FrequencyConfig) Validate() error {
	switch f.Kind {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		if f.Count <= 0 {
			return fmt.Errorf("frequency %s requires a positive count", f.Kind)
		}
		if len(f.Days) > 0 {
			return fmt.Errorf("frequency %s does not accept days", f.Kind)
		}
	case FrequencySpecificDays:
		if len(f.Days) == 0 {
			return fmt.Errorf("frequency %s requires at least one day", f.Kind)
		}
		seen := make(map[time.Weekday]bool, len(f.Days))
		for _, d := range f.Days {
			if d < time.Sunday || d > time.Saturday {
				return fmt.Errorf("invalid weekday %d", d)
			}
			if seen[d] {
				return fmt.Errorf("duplicate weekday %s", d)
			}
			seen[d] = true
		}
	default:
		return fmt.Errorf("unknown frequency type %q", f.Kind)
	}
	return nil
}

// DailyTarget returns how many completions are expected on the given date.
// Weekly and monthly habits only get a per-day target when the count covers
// every day of the period.
func (f FrequencyConfig) DailyTarget(date time.Time) int {
	f = f.Normalized()
	switch f.Kind {
	case FrequencyDaily:
		return f.Count
	case FrequencyWeekly:
		if f.Count >= 7 {
			return 1
		}
		return 0
	case FrequencyMonthly:
		if f.Count >= daysInMonth(date) {
			return 1
		}
		return 0
	case FrequencySpecificDays:
		for _, d := range f.Days {
			if d == date.Weekday() {
				return 1
			}
		}
		return 0
	}
	return 1
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

type frequencyJSON struct {
	Type  FrequencyKind `json:"type"`
	Count int           `json:"count,omitempty"`
	Days  []int         `json:"days,omitempty"`
}

// MarshalJSON encodes the variant as {"type": ..., "count"|"days": ...}
func (f FrequencyConfig) MarshalJSON() ([]byte, error) {
	f = f.Normalized()
	out := frequencyJSON{Type: f.Kind}
	if f.Kind == FrequencySpecificDays {
		out.Days = make([]int, len(f.Days))
		for i, d := range f.Days {
			out.Days[i] = int(d)
		}
	} else {
		out.Count = f.Count
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates the tagged form
func (f *FrequencyConfig) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FrequencyConfig{}
		return nil
	}

	var in frequencyJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	cfg := FrequencyConfig{Kind: in.Type, Count: in.Count}
	if len(in.Days) > 0 {
		cfg.Days = make([]time.Weekday, len(in.Days))
		for i, d := range in.Days {
			cfg.Days[i] = time.Weekday(d)
		}
	}

	if cfg.Kind == "" {
		cfg.Kind = FrequencyDaily
	}
	if cfg.Kind != FrequencySpecificDays && cfg.Count == 0 {
		cfg.Count = 1
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	*f = cfg
	return nil
}
