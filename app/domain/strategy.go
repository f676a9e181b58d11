package domain

import "strings"

type StrategyName string

const (
	MovingAverage        StrategyName = "MOVING_AVERAGE"
	ExponentialSmoothing StrategyName = "EXPONENTIAL_SMOOTHING"

	DefaultStrategy = MovingAverage
)

// Strategy recommends max(ceil(quantity*RatioPercent/100), Floor).
type Strategy struct {
	Name         StrategyName
	Description  string
	RatioPercent int64
	Floor        int64
}

func (s Strategy) Recommend(quantity int64) int64 {
	if quantity < 0 {
		quantity = 0
	}
	// Split at 100 so quantity*RatioPercent cannot overflow.
	r := quantity/100*s.RatioPercent + (quantity%100*s.RatioPercent+99)/100
	if r < s.Floor {
		return s.Floor
	}
	return r
}

type StrategyInfo struct {
	Name        StrategyName `json:"name"`
	Description string       `json:"description"`
}

// StrategyRegistry is read-only after construction and safe for concurrent use.
type StrategyRegistry struct {
	ordered []Strategy
	byName  map[StrategyName]Strategy
}

func NewStrategyRegistry(strategies ...Strategy) *StrategyRegistry {
	r := &StrategyRegistry{byName: make(map[StrategyName]Strategy, len(strategies))}
	for _, s := range strategies {
		if _, dup := r.byName[s.Name]; dup {
			continue
		}
		r.ordered = append(r.ordered, s)
		r.byName[s.Name] = s
	}
	return r
}

func DefaultStrategies() *StrategyRegistry {
	return NewStrategyRegistry(
		Strategy{
			Name:         MovingAverage,
			Description:  "Calculates restock quantity based on 20% of current stock levels. Suitable for items with stable, predictable consumption patterns.",
			RatioPercent: 20,
			Floor:        5,
		},
		Strategy{
			Name:         ExponentialSmoothing,
			Description:  "Uses exponential smoothing with alpha=0.3 to calculate restock quantity. Gives more weight to recent consumption trends. Suitable for items with changing demand patterns.",
			RatioPercent: 30,
			Floor:        8,
		},
	)
}

// Lookup is case-insensitive. An unknown name reports false; there is no
// fallback strategy.
func (r *StrategyRegistry) Lookup(name string) (Strategy, bool) {
	s, ok := r.byName[StrategyName(strings.ToUpper(strings.TrimSpace(name)))]
	return s, ok
}

func (r *StrategyRegistry) List() []StrategyInfo {
	out := make([]StrategyInfo, 0, len(r.ordered))
	for _, s := range r.ordered {
		out = append(out, StrategyInfo{Name: s.Name, Description: s.Description})
	}
	return out
}
