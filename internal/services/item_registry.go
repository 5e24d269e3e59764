package services

import (
	"delivery-planning-session/internal/domain"
	"slices"
)

// ItemRegistry is the ordered collection of candidate items for one session.
//
// Total weight is kept as a running sum so TotalWeight is O(1). When the
// registry empties the sum is reset to exactly zero so float drift never
// outlives the items that caused it.
type ItemRegistry struct {
	picker      *GeolocationPicker
	values      domain.ValueRange
	items       []domain.Item
	nextID      int
	totalWeight float64
}

func NewItemRegistry(picker *GeolocationPicker, values domain.ValueRange) *ItemRegistry {
	return &ItemRegistry{picker: picker, values: values, nextID: 1}
}

// Add validates the draft, consumes the picker's pending selection and
// appends a new item. Nothing is mutated when validation fails.
func (r *ItemRegistry) Add(draft domain.ItemDraft) (domain.Item, error) {
	if err := draft.Validate(r.values); err != nil {
		return domain.Item{}, err
	}

	if _, ok := r.picker.Pending(); !ok {
		return domain.Item{}, domain.ErrNoLocationSelected
	}

	loc, err := r.picker.Confirm()
	if err != nil {
		return domain.Item{}, err
	}

	item := domain.Item{
		ID:       r.nextID,
		Name:     draft.Name,
		Weight:   draft.Weight,
		Value:    draft.Value,
		Location: loc,
	}
	r.nextID++
	r.items = append(r.items, item)
	r.totalWeight += item.Weight

	return item, nil
}

// Remove deletes the item with the given id. It reports false when absent.
func (r *ItemRegistry) Remove(id int) bool {
	idx := slices.IndexFunc(r.items, func(it domain.Item) bool { return it.ID == id })
	if idx < 0 {
		return false
	}

	r.totalWeight -= r.items[idx].Weight
	r.items = slices.Delete(r.items, idx, idx+1)
	if len(r.items) == 0 {
		r.totalWeight = 0
	}
	return true
}

// Clear empties the registry. Identifiers keep increasing afterwards.
func (r *ItemRegistry) Clear() {
	r.items = nil
	r.totalWeight = 0
}

func (r *ItemRegistry) TotalWeight() float64 { return r.totalWeight }

func (r *ItemRegistry) Len() int { return len(r.items) }

// Items returns a copy of the current items in insertion order.
func (r *ItemRegistry) Items() []domain.Item {
	return slices.Clone(r.items)
}

func (r *ItemRegistry) Values() domain.ValueRange { return r.values }
