package usecase

import (
	"context"
	"errors"
	"fmt"
	"inventory-platform/app/domain"
	"inventory-platform/pkg/metrics"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
)

type restockUsecase struct {
	inventory  domain.InventoryClient
	notifier   domain.NotificationClient
	strategies *domain.StrategyRegistry
	thresholds domain.RestockThresholds
}

func NewRestockUsecase(inventory domain.InventoryClient, notifier domain.NotificationClient, strategies *domain.StrategyRegistry, thresholds domain.RestockThresholds) domain.RestockService {
	return &restockUsecase{inventory, notifier, strategies, thresholds}
}

func (u *restockUsecase) Strategies() []domain.StrategyInfo {
	return u.strategies.List()
}

// CalculateForItem resolves the strategy before calling the inventory
// service, so an unknown strategy costs no round trip.
func (u *restockUsecase) CalculateForItem(ctx context.Context, itemID int64, strategyName string) (domain.RestockRecommendation, error) {
	strategy, err := u.lookup(strategyName)
	if err != nil {
		slog.ErrorContext(ctx, "[restockUsecase] CalculateForItem", "lookup", err)
		return domain.RestockRecommendation{}, err
	}

	item, err := u.inventory.GetItem(ctx, itemID)
	if err != nil {
		slog.ErrorContext(ctx, "[restockUsecase] CalculateForItem", "inventoryClient", err)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RestockRecommendation{}, fmt.Errorf("item %d: %w", itemID, domain.ErrNotFound)
		}
		return domain.RestockRecommendation{}, upstreamError(err)
	}

	return u.recommend(ctx, item, strategy)
}

// AnalyzeAll fetches the inventory once and recommends a restock for every
// item at or below the low threshold. Items that cannot be evaluated are
// skipped. Urgent recommendations also trigger a broadcast notification,
// whose failure is only logged.
func (u *restockUsecase) AnalyzeAll(ctx context.Context, strategyName string) (domain.RestockAnalysis, error) {
	strategy, err := u.lookup(strategyName)
	if err != nil {
		slog.ErrorContext(ctx, "[restockUsecase] AnalyzeAll", "lookup", err)
		return domain.RestockAnalysis{}, err
	}

	items, err := u.inventory.ListItems(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[restockUsecase] AnalyzeAll", "inventoryClient", err)
		return domain.RestockAnalysis{}, upstreamError(err)
	}

	analysis := domain.RestockAnalysis{
		Strategy:        strategy.Name,
		Recommendations: []domain.RestockRecommendation{},
	}
	for _, item := range items {
		if item.Quantity > u.thresholds.Low {
			continue
		}

		rec, err := u.recommend(ctx, item, strategy)
		if err != nil {
			slog.WarnContext(ctx, "[restockUsecase] AnalyzeAll", "itemID", item.ID, "skip", err)
			continue
		}
		analysis.Recommendations = append(analysis.Recommendations, rec)

		if rec.Urgent {
			analysis.UrgentCount++
			u.notifyUrgent(ctx, rec)
		}
	}
	analysis.TotalRecommendations = len(analysis.Recommendations)

	slog.InfoContext(ctx, "[restockUsecase] AnalyzeAll",
		"strategy", strategy.Name,
		"items", len(items),
		"recommendations", analysis.TotalRecommendations,
		"urgent", analysis.UrgentCount)
	return analysis, nil
}

func upstreamError(err error) error {
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
}

func (u *restockUsecase) lookup(name string) (domain.Strategy, error) {
	strategy, ok := u.strategies.Lookup(name)
	if !ok {
		return domain.Strategy{}, fmt.Errorf("%w: %q", domain.ErrInvalidStrategy, name)
	}
	return strategy, nil
}

func (u *restockUsecase) recommend(ctx context.Context, item domain.Item, strategy domain.Strategy) (domain.RestockRecommendation, error) {
	if item.ID <= 0 {
		return domain.RestockRecommendation{}, fmt.Errorf("%w: item without id", domain.ErrValidation)
	}
	if item.Quantity < 0 {
		return domain.RestockRecommendation{}, fmt.Errorf("%w: item %d has negative quantity %d", domain.ErrValidation, item.ID, item.Quantity)
	}

	reason, urgent := u.thresholds.Classify(item.Quantity)
	rec := domain.RestockRecommendation{
		ItemID:              item.ID,
		ItemName:            item.Name,
		CurrentQuantity:     item.Quantity,
		RecommendedQuantity: strategy.Recommend(item.Quantity),
		StrategyName:        strategy.Name,
		Reason:              reason,
		Urgent:              urgent,
	}

	metrics.Inc(ctx, metrics.RestockRecommendations,
		attribute.String("strategy", string(strategy.Name)),
		attribute.String("urgent", strconv.FormatBool(urgent)))
	return rec, nil
}

func (u *restockUsecase) notifyUrgent(ctx context.Context, rec domain.RestockRecommendation) {
	req := domain.NotificationRequest{
		Message: fmt.Sprintf("URGENT: Item '%s' (ID: %d) is critically low! Current: %d, Recommended restock: %d",
			rec.ItemName, rec.ItemID, rec.CurrentQuantity, rec.RecommendedQuantity),
		Channel: domain.ChannelAll,
	}
	if err := u.notifier.Send(ctx, req); err != nil {
		slog.WarnContext(ctx, "[restockUsecase] notifyUrgent", "itemID", rec.ItemID, "send", err)
	}
}
