package queue

import (
	"fmt"
	"strconv"
	"strings"
)

// ===============================
// Priority tier
// ===============================

type Tier string

const (
	TierUrgent Tier = "urgent"
	TierHigh   Tier = "high"
	TierNormal Tier = "normal"
	TierLow    Tier = "low"
)

var allTiers = []Tier{TierUrgent, TierHigh, TierNormal, TierLow}

// ParseTier aceita o valor vindo da borda; vazio vira normal.
func ParseTier(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TierNormal, nil
	}
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("priority %q: %w", s, ErrInvalidPriority)
	}
	return t, nil
}

func (t Tier) Valid() bool {
	for _, v := range allTiers {
		if t == v {
			return true
		}
	}
	return false
}

// TierRank maps each tier to its service order; lower is served sooner.
type TierRank map[Tier]int

func DefaultTierRank() TierRank {
	return TierRank{
		TierUrgent: 0,
		TierHigh:   1,
		TierNormal: 2,
		TierLow:    3,
	}
}

// Of returns the configured rank. Tiers missing from the map rank after every
// configured one.
func (r TierRank) Of(t Tier) int {
	if v, ok := r[t]; ok {
		return v
	}
	return len(allTiers) + len(r)
}

// ParseTierRank reads "urgent:0,high:1,normal:2,low:3". Every tier must be present.
func ParseTierRank(raw string) (TierRank, error) {
	rank := TierRank{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("tier rank entry %q: want tier:rank", part)
		}
		tier, err := ParseTier(name)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("tier rank entry %q: %w", part, err)
		}
		rank[tier] = n
	}
	for _, t := range allTiers {
		if _, ok := rank[t]; !ok {
			return nil, fmt.Errorf("tier rank is missing %q", t)
		}
	}
	return rank, nil
}
