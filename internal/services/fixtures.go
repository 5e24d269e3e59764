package services

import (
	"delivery-planning-session/internal/domain"
	"encoding/json"
	"fmt"
	"os"
)

// LocatedDraft is a draft with its delivery location already chosen.
type LocatedDraft struct {
	Draft    domain.ItemDraft
	Location domain.LatLng
}

type itemFixture struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// LoadDraftsFromJSON reads a list of {name, weight, value, lat, lng} items.
// Field validation happens on import, not here.
func LoadDraftsFromJSON(jsonPath string) ([]LocatedDraft, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load items: read %q: %w", jsonPath, err)
	}

	var data []itemFixture
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load items: parse json: %w", err)
	}

	out := make([]LocatedDraft, 0, len(data))
	for _, it := range data {
		out = append(out, LocatedDraft{
			Draft:    domain.ItemDraft{Name: it.Name, Weight: it.Weight, Value: it.Value},
			Location: domain.LatLng{Lat: it.Lat, Lng: it.Lng},
		})
	}

	return out, nil
}
