package domain

import (
	"math"
	"strconv"
	"strings"
)

// Represents a single candidate deliverable (medicine or package).
// An Item always carries a resolved location and is immutable once created;
// edits go through remove + re-add.
type Item struct {
	ID       int
	Name     string
	Weight   float64
	Value    float64
	Location LatLng
}

// ItemDraft is the user-entered part of an Item before a location is attached.
type ItemDraft struct {
	Name   string
	Weight float64
	Value  float64
}

// ValueRange bounds the accepted item value (inclusive).
type ValueRange struct {
	Min float64
	Max float64
}

var (
	MedicineValueRange = ValueRange{Min: 1, Max: 100}
	PackageValueRange  = ValueRange{Min: 0, Max: 10}
)

func (r ValueRange) Contains(v float64) bool {
	return finite(v) && v >= r.Min && v <= r.Max
}

// Validate checks the draft in field order: name, weight, value.
func (d ItemDraft) Validate(values ValueRange) error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrMissingName
	}

	if !finite(d.Weight) || d.Weight <= 0 {
		return NewValidationError(ReasonInvalidWeight, "weight must be a positive number, got %v", d.Weight)
	}

	if !values.Contains(d.Value) {
		return NewValidationError(
			ReasonInvalidValue,
			"value must be between %g and %g, got %v",
			values.Min, values.Max, d.Value,
		)
	}

	return nil
}

// ParseItemDraft builds a draft from raw form text. Parse failures map to the
// matching validation reason; range checks are left to Validate.
func ParseItemDraft(name, weightText, valueText string) (ItemDraft, error) {
	d := ItemDraft{Name: strings.TrimSpace(name)}
	if d.Name == "" {
		return ItemDraft{}, ErrMissingName
	}

	w, err := strconv.ParseFloat(strings.TrimSpace(weightText), 64)
	if err != nil {
		return ItemDraft{}, NewValidationError(ReasonInvalidWeight, "weight %q is not a number", weightText)
	}
	d.Weight = w

	v, err := strconv.ParseFloat(strings.TrimSpace(valueText), 64)
	if err != nil {
		return ItemDraft{}, NewValidationError(ReasonInvalidValue, "value %q is not a number", valueText)
	}
	d.Value = v

	return d, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
