package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"shop-admin/config"
	"shop-admin/internal/broker"
	"shop-admin/internal/service"
	"shop-admin/internal/util"
	"shop-admin/internal/worker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Reconcile flags
	groupID string
)

// reconcileCmd checks order totals as order events arrive
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Consume order events and check the total of each touched order",
	Long: `Follow the order event topic and, for every order that was created,
had a line added or changed status, compare its stored total with its lines.

Drift is logged and counted; nothing is repaired. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile()
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&groupID, "group", "", "Kafka consumer group (defaults to KAFKA_CONSUMER_GROUP)")
}

func runReconcile() error {
	cfg := config.Load()
	logger := util.GetLogger()

	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is not set")
	}
	if groupID == "" {
		groupID = cfg.Kafka.ConsumerGroup
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, groupID)
	w := worker.NewReconcileWorker(consumer, service.NewTotalsReconciler(s))
	defer func() {
		if err := w.Stop(); err != nil {
			logger.Error("Failed to close consumer", zap.Error(err))
		}
	}()

	logger.Info("Reconciling order totals",
		zap.String("topic", cfg.Kafka.TopicOrder),
		zap.String("group", groupID))

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
