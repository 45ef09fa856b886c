package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FactState tells whether a fact carries a measured value.
type FactState int

const (
	// StateUnavailable means the fact was checked but the capability to measure it is missing.
	StateUnavailable FactState = iota
	// StatePresent means the fact holds a measured value.
	StatePresent
	// StateNotApplicable means the fact was not checked because nothing was configured for it.
	StateNotApplicable
)

// Marker tokens rendered in place of absent facts.
const (
	UnavailableToken   = "unavailable"
	NotApplicableToken = "not_applicable"
)

// String returns the marker token of the state.
func (s FactState) String() string {
	switch s {
	case StatePresent:
		return "present"
	case StateNotApplicable:
		return NotApplicableToken
	default:
		return UnavailableToken
	}
}

// Fact is a single measured host property that may be absent.
// The zero value is an unavailable fact.
type Fact[T any] struct {
	value T
	state FactState
}

// Present wraps a measured value.
func Present[T any](value T) Fact[T] {
	return Fact[T]{value: value, state: StatePresent}
}

// Unavailable marks a fact whose capability is missing.
func Unavailable[T any]() Fact[T] {
	return Fact[T]{state: StateUnavailable}
}

// NotApplicable marks a fact that was not checked.
func NotApplicable[T any]() Fact[T] {
	return Fact[T]{state: StateNotApplicable}
}

// Get returns the value and whether it is present.
func (f Fact[T]) Get() (T, bool) {
	return f.value, f.state == StatePresent
}

// State returns the fact state.
func (f Fact[T]) State() FactState {
	return f.state
}

// IsPresent reports whether the fact holds a value.
func (f Fact[T]) IsPresent() bool {
	return f.state == StatePresent
}

// String returns the display form of the value, or the state marker when absent.
func (f Fact[T]) String() string {
	if f.state != StatePresent {
		return f.state.String()
	}

	switch v := any(f.value).(type) {
	case string:
		if v == "" {
			return UnavailableToken
		}
		return v
	case []string:
		if len(v) == 0 {
			return "none"
		}
		return strings.Join(v, " ")
	case float64:
		return fmt.Sprintf("%.1f", v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// MarshalJSON encodes the value when present and the marker token otherwise.
func (f Fact[T]) MarshalJSON() ([]byte, error) {
	if f.state != StatePresent || f.blank() {
		return json.Marshal(f.String())
	}
	if v, ok := any(f.value).([]string); ok && v == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f.value)
}

// MarshalYAML encodes the value when present and the marker token otherwise.
func (f Fact[T]) MarshalYAML() (interface{}, error) {
	if f.state != StatePresent || f.blank() {
		return f.String(), nil
	}
	if v, ok := any(f.value).([]string); ok && v == nil {
		return []string{}, nil
	}
	return f.value, nil
}

// blank reports a present but empty string, which renders as unavailable.
func (f Fact[T]) blank() bool {
	v, ok := any(f.value).(string)
	return ok && v == ""
}
