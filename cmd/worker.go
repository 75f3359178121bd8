package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/autowerk/garage-management/internal/core/events"
	"github.com/autowerk/garage-management/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker processes",
	Long:  `Start background workers such as the audit event worker.`,
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start the audit event worker",
	Long:  `Start a standalone event bus that logs authentication and workshop audit events.`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

func startEventWorker() {
	if _, err := loadConfig("."); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.LoggerWrapper()

	eventBus := events.NewEventBus(log)
	registerAuditSubscribers(eventBus, log)

	log.Info("audit event worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received signal, shutting down event worker", "signal", sig)
}

// registerAuditSubscribers writes each security and workshop event to the
// structured log. The log stream is the audit trail.
func registerAuditSubscribers(bus *events.EventBus, log *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		log.Info("audit event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	}

	bus.Subscribe(events.EventTypeLoginSucceeded, audit)
	bus.Subscribe(events.EventTypeLoginFailed, audit)
	bus.Subscribe(events.EventTypeAccountLocked, audit)
	bus.Subscribe(events.EventTypeGatePassIssued, audit)
	bus.Subscribe(events.EventTypeJobStatusChanged, audit)
}

func init() {
	workerCmd.AddCommand(eventWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
