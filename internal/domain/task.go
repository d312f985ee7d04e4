package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CandidateTask is one actionable item extracted from a brain dump.
type CandidateTask struct {
	ID       string
	Title    string
	Effort   Effort
	Urgency  Urgency
	Deadline *time.Time // nil means no explicit deadline
	Category string
}

// Normalize fills in missing effort and urgency with medium. Values that are
// present but unrecognised are left alone so the scorer's enum policy decides
// what happens to them.
func (t CandidateTask) Normalize() CandidateTask {
	if t.Effort == "" {
		t.Effort = EffortMedium
	}
	if t.Urgency == "" {
		t.Urgency = UrgencyMedium
	}
	t.Title = strings.TrimSpace(t.Title)
	t.Category = strings.TrimSpace(t.Category)
	return t
}

// Constraints is the per-request planning context supplied by the user.
type Constraints struct {
	TimeAvailable TimeAvailable
	EnergyLevel   EnergyLevel
	FocusArea     string
	Mode          PlanMode
}

// Validate reports every constraint field that is not a known enum value.
func (c Constraints) Validate() error {
	var errs []error
	if !c.TimeAvailable.IsValid() {
		errs = append(errs, fmt.Errorf("time_available %q: %w", c.TimeAvailable, ErrInvalidEnum))
	}
	if !c.EnergyLevel.IsValid() {
		errs = append(errs, fmt.Errorf("energy_level %q: %w", c.EnergyLevel, ErrInvalidEnum))
	}
	if !c.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("mode %q: %w", c.Mode, ErrInvalidEnum))
	}
	return errors.Join(errs...)
}

// DefaultConstraints is a middle-of-the-road week plan.
func DefaultConstraints() Constraints {
	return Constraints{
		TimeAvailable: TimeMedium,
		EnergyLevel:   EnergyOK,
		Mode:          ModeWeek,
	}
}

// ErrInvalidDeadline is returned by ParseDeadline for unparseable input.
var ErrInvalidDeadline = errors.New("invalid deadline")

// ParseDeadline accepts a calendar date (2006-01-02, midnight in loc) or an
// RFC 3339 timestamp. Empty input means no deadline.
func ParseDeadline(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %q (want YYYY-MM-DD or RFC 3339)", ErrInvalidDeadline, s)
}
