package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/events"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/notification"
	"github.com/AsimAftab/SalesSphere-Backend-sub001/pkg/logger"
	"github.com/spf13/cobra"
)

// notifierCmd runs the webhook dispatcher on its own, for deployments that
// keep notification delivery out of the API process.
var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Start the notification dispatcher",
	Long:  `Start the webhook notification worker pool standalone. It consumes status-change events and posts them to the configured webhook URL.`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotifier()
	},
}

var (
	notifierMaxWorkers   int
	notifierQueueSize    int
	notifierWebhookURL   string
	notifierProbeOnStart bool
)

func startNotifier() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.Component("notifier")

	dispatcherConfig := notification.Config{
		WebhookURL:     getStringFlag(notifierWebhookURL, config.Notification.WebhookURL),
		RequestTimeout: config.Notification.RequestTimeout,
		MaxWorkers:     getIntFlag(notifierMaxWorkers, config.Notification.MaxWorkers),
		JobQueueSize:   getIntFlag(notifierQueueSize, config.Notification.JobQueueSize),
	}
	if dispatcherConfig.WebhookURL == "" {
		fmt.Fprintln(os.Stderr, "A webhook URL is required: set notification.webhook_url or pass --webhook-url")
		os.Exit(1)
	}

	log.Info("starting notification dispatcher",
		"max_workers", dispatcherConfig.MaxWorkers,
		"job_queue_size", dispatcherConfig.JobQueueSize,
		"webhook_url", dispatcherConfig.WebhookURL)

	dispatcher := notification.NewDispatcher(dispatcherConfig, log)

	bus := events.NewEventBus(log)
	dispatcher.Subscribe(bus)

	if notifierProbeOnStart {
		probe := events.NewLeaveStatusChangedEvent(0, 0, 0, "approved", "dispatcher probe", 0)
		if err := bus.PublishSync(context.Background(), probe); err != nil {
			log.Error("probe event failed to enqueue", "error", err)
		}
		// Delivery is asynchronous; give the pool a moment before the
		// usual signal wait so a quick Ctrl+C still sees the result.
		time.Sleep(time.Second)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info("notification dispatcher is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	log.Info("received signal, shutting down notification dispatcher", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		dispatcher.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		log.Info("notification dispatcher shutdown complete")
	case <-ctx.Done():
		log.Warn("shutdown timeout reached, forcing exit")
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	notifierCmd.Flags().IntVar(&notifierMaxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	notifierCmd.Flags().IntVar(&notifierQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	notifierCmd.Flags().StringVar(&notifierWebhookURL, "webhook-url", "", "Webhook URL (overrides config)")
	notifierCmd.Flags().BoolVar(&notifierProbeOnStart, "probe", false, "Send one test notification on startup")
}
