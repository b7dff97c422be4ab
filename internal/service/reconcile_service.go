package service

import (
	"context"
	"errors"
	"fmt"

	"shop-admin/internal/models"
	"shop-admin/internal/store"
	"shop-admin/internal/util"

	"go.uber.org/zap"
)

// TotalsStore reads stored and computed order totals side by side
type TotalsStore interface {
	OrderTotals(ctx context.Context, orderID int64) (*models.OrderTotals, error)
	ListOrderTotals(ctx context.Context) ([]models.OrderTotals, error)
}

// TotalsReconciler detects orders whose running total no longer matches the
// sum of their lines. It reports drift and never repairs it.
type TotalsReconciler struct {
	store  TotalsStore
	logger *zap.Logger
}

// NewTotalsReconciler creates a new reconciler
func NewTotalsReconciler(store TotalsStore) *TotalsReconciler {
	return &TotalsReconciler{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Check compares one order's totals. A missing order returns nil totals and
// no error since it was deleted after the event was produced.
func (r *TotalsReconciler) Check(ctx context.Context, orderID int64) (*models.OrderTotals, error) {
	ctx, span := util.StartSpan(ctx, "TotalsReconciler.Check")
	defer span.End()

	totals, err := r.store.OrderTotals(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		r.logger.Debug("Order gone, skipping total check", zap.Int64("order_id", orderID))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load totals of order %d: %w", orderID, err)
	}

	r.report(*totals)
	return totals, nil
}

// CheckAll compares every order and returns the drifted ones
func (r *TotalsReconciler) CheckAll(ctx context.Context) ([]models.OrderTotals, error) {
	ctx, span := util.StartSpan(ctx, "TotalsReconciler.CheckAll")
	defer span.End()

	all, err := r.store.ListOrderTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list order totals: %w", err)
	}

	drifted := []models.OrderTotals{}
	for _, totals := range all {
		if r.report(totals) {
			drifted = append(drifted, totals)
		}
	}

	r.logger.Info("Order totals checked",
		zap.Int("orders", len(all)),
		zap.Int("drifted", len(drifted)))
	return drifted, nil
}

// HandleOrderLineAdded checks the order a line was added to
func (r *TotalsReconciler) HandleOrderLineAdded(ctx context.Context, event *models.OrderLineAddedEvent) error {
	_, err := r.Check(ctx, event.OrderID)
	return err
}

// HandleOrderChanged checks an order after it was created or its status changed
func (r *TotalsReconciler) HandleOrderChanged(ctx context.Context, event models.BaseEvent) error {
	_, err := r.Check(ctx, event.OrderID)
	return err
}

func (r *TotalsReconciler) report(totals models.OrderTotals) bool {
	if !totals.Drifted() {
		return false
	}
	util.OrderTotalDriftTotal.Inc()
	r.logger.Warn("Order total drift",
		zap.Int64("order_id", totals.OrderID),
		zap.String("stored", totals.Stored.StringFixed(2)),
		zap.String("lines_total", totals.LinesTotal.StringFixed(2)),
		zap.Int("line_count", totals.LineCount))
	return true
}
