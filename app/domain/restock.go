package domain

import "context"

const (
	ReasonCritical   = "CRITICAL: Stock critically low"
	ReasonWarning    = "WARNING: Stock below threshold"
	ReasonPreventive = "Preventive restocking"
)

type RestockThresholds struct {
	Critical int64
	Low      int64
}

// Classify returns the restock reason for quantity and whether it is urgent.
func (t RestockThresholds) Classify(quantity int64) (reason string, urgent bool) {
	switch {
	case quantity <= t.Critical:
		return ReasonCritical, true
	case quantity <= t.Low:
		return ReasonWarning, false
	default:
		return ReasonPreventive, false
	}
}

type RestockRecommendation struct {
	ItemID              int64        `json:"itemId"`
	ItemName            string       `json:"itemName"`
	CurrentQuantity     int64        `json:"currentQuantity"`
	RecommendedQuantity int64        `json:"recommendedQuantity"`
	StrategyName        StrategyName `json:"strategyName"`
	Reason              string       `json:"reason"`
	Urgent              bool         `json:"urgent"`
}

type RestockAnalysis struct {
	Strategy             StrategyName            `json:"strategy"`
	TotalRecommendations int                     `json:"totalRecommendations"`
	Recommendations      []RestockRecommendation `json:"recommendations"`
	UrgentCount          int                     `json:"urgentCount"`
}

// InventoryClient reads items from the inventory service. GetItem returns
// ErrNotFound for a missing item and ErrUpstreamUnavailable when the call
// itself fails.
type InventoryClient interface {
	GetItem(ctx context.Context, id int64) (Item, error)
	ListItems(ctx context.Context) ([]Item, error)
}

type RestockService interface {
	CalculateForItem(ctx context.Context, itemID int64, strategy string) (RestockRecommendation, error)
	AnalyzeAll(ctx context.Context, strategy string) (RestockAnalysis, error)
	Strategies() []StrategyInfo
}
