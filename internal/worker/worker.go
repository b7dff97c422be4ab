package worker

import (
	"context"

	"shop-admin/internal/broker"
	"shop-admin/internal/service"
	"shop-admin/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageSource delivers order event messages until ctx is cancelled
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// ReconcileWorker checks order totals for every order touched by an event
type ReconcileWorker struct {
	source       MessageSource
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewReconcileWorker creates a new reconcile worker
func NewReconcileWorker(source MessageSource, reconciler *service.TotalsReconciler) *ReconcileWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnOrderLineAdded(reconciler.HandleOrderLineAdded)
	eventHandler.OnOrderChanged(reconciler.HandleOrderChanged)

	return &ReconcileWorker{
		source:       source,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Handle processes one message; exposed for replay from other sources
func (w *ReconcileWorker) Handle(ctx context.Context, msg kafka.Message) error {
	return w.eventHandler.HandleMessage(ctx, msg)
}

// Start blocks consuming events until ctx is cancelled
func (w *ReconcileWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting reconcile worker")
	return w.source.StartConsuming(ctx, w.Handle)
}

// Stop stops the worker
func (w *ReconcileWorker) Stop() error {
	w.logger.Info("Stopping reconcile worker")
	return w.source.Close()
}
