package cache

import (
	"delivery-planning-session/internal/domain"
	"encoding/json"
	"fmt"
)

func encodeResult(r domain.PlanningResult) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode plan result: %w", err)
	}
	return b, nil
}

func decodeResult(b []byte) (domain.PlanningResult, error) {
	var r domain.PlanningResult
	if err := json.Unmarshal(b, &r); err != nil {
		return domain.PlanningResult{}, fmt.Errorf("decode plan result: %w", err)
	}
	return r, nil
}

// expiresAt returns the unix expiry for a ttl, or 0 for no expiry.
func expiresAt(now int64, ttlSeconds int64) int64 {
	if ttlSeconds <= 0 {
		return 0
	}
	return now + ttlSeconds
}
