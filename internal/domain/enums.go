package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEnum is returned when a string does not name a known enum value.
var ErrInvalidEnum = errors.New("invalid enum value")

type Effort string

const (
	EffortSmall  Effort = "small"
	EffortMedium Effort = "medium"
	EffortLarge  Effort = "large"
)

func (e Effort) IsValid() bool {
	switch e {
	case EffortSmall, EffortMedium, EffortLarge:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

type TimeAvailable string

const (
	TimeLow    TimeAvailable = "low"
	TimeMedium TimeAvailable = "medium"
	TimeHigh   TimeAvailable = "high"
)

func (t TimeAvailable) IsValid() bool {
	switch t {
	case TimeLow, TimeMedium, TimeHigh:
		return true
	}
	return false
}

type EnergyLevel string

const (
	EnergyDrained EnergyLevel = "drained"
	EnergyOK      EnergyLevel = "ok"
	EnergyFiredUp EnergyLevel = "fired_up"
)

func (e EnergyLevel) IsValid() bool {
	switch e {
	case EnergyDrained, EnergyOK, EnergyFiredUp:
		return true
	}
	return false
}

type PlanMode string

const (
	ModeToday PlanMode = "today"
	ModeWeek  PlanMode = "week"
)

func (m PlanMode) IsValid() bool {
	return m == ModeToday || m == ModeWeek
}

// Section is the persisted, mutually exclusive bucket a plan task lives in.
type Section string

const (
	SectionDoFirst     Section = "do_first"
	SectionThisWeek    Section = "this_week"
	SectionNotThisWeek Section = "not_this_week"
)

// SectionOrder lists sections in display order.
var SectionOrder = []Section{SectionDoFirst, SectionThisWeek, SectionNotThisWeek}

func (s Section) IsValid() bool {
	switch s {
	case SectionDoFirst, SectionThisWeek, SectionNotThisWeek:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskOpen TaskStatus = "open"
	TaskDone TaskStatus = "done"
)

func (s TaskStatus) IsValid() bool {
	return s == TaskOpen || s == TaskDone
}

// normalizeEnum lowercases, trims, and maps spaces and dashes to underscores
// so "Fired Up" and "fired-up" both parse as fired_up.
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

func ParseEffort(s string) (Effort, error) {
	v := Effort(normalizeEnum(s))
	if !v.IsValid() {
		return "", fmt.Errorf("effort %q: %w", s, ErrInvalidEnum)
	}
	return v, nil
}

func ParseUrgency(s string) (Urgency, error) {
	v := Urgency(normalizeEnum(s))
	if !v.IsValid() {
		return "", fmt.Errorf("urgency %q: %w", s, ErrInvalidEnum)
	}
	return v, nil
}

func ParseTimeAvailable(s string) (TimeAvailable, error) {
	v := TimeAvailable(normalizeEnum(s))
	if !v.IsValid() {
		return "", fmt.Errorf("time_available %q: %w", s, ErrInvalidEnum)
	}
	return v, nil
}

func ParseEnergyLevel(s string) (EnergyLevel, error) {
	v := EnergyLevel(normalizeEnum(s))
	if !v.IsValid() {
		return "", fmt.Errorf("energy_level %q: %w", s, ErrInvalidEnum)
	}
	return v, nil
}

func ParsePlanMode(s string) (PlanMode, error) {
	v := PlanMode(normalizeEnum(s))
	if !v.IsValid() {
		return "", fmt.Errorf("mode %q: %w", s, ErrInvalidEnum)
	}
	return v, nil
}

func ParseSection(s string) (Section, error) {
	v := Section(normalizeEnum(s))
	if !v.IsValid() {
		return "", fmt.Errorf("section %q: %w", s, ErrInvalidEnum)
	}
	return v, nil
}

// EffortOf normalises s without validating it. Unknown values pass through
// so the scorer's enum policy decides what happens to them.
func EffortOf(s string) Effort {
	return Effort(normalizeEnum(s))
}

// UrgencyOf normalises s without validating it.
func UrgencyOf(s string) Urgency {
	return Urgency(normalizeEnum(s))
}
