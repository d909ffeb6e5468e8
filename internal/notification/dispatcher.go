package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/AsimAftab/SalesSphere-Backend-sub001/internal/core/events"
)

// Job is one webhook delivery: an approval outcome to tell the outside
// world about.
type Job struct {
	Event          string    `json:"event"`
	Module         string    `json:"module"`
	RecordID       int64     `json:"record_id"`
	OrganizationID int64     `json:"organization_id"`
	OwnerID        int64     `json:"owner_id"`
	Status         string    `json:"status"`
	Reason         string    `json:"reason,omitempty"`
	ActorID        int64     `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {

			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker delivering notification", "worker_id", w.ID, "record_id", job.RecordID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	WebhookURL     string
	RequestTimeout time.Duration
	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
}

// Dispatcher fans status-change webhooks out through a bounded worker pool.
// It consumes workflow events from the in-process bus; delivery runs on the
// dispatcher's own context so an aborted HTTP request never cancels a
// notification already accepted.
type Dispatcher struct {
	webhookURL     string
	requestTimeout time.Duration
	httpClient     *http.Client
	logger         *slog.Logger

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewDispatcher(config Config, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	requestTimeout := config.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}

	dispatcher := &Dispatcher{
		webhookURL:     config.WebhookURL,
		requestTimeout: requestTimeout,
		httpClient:     &http.Client{Timeout: requestTimeout},
		logger:         logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, jobQueueSize),
		workerPool: make(chan chan Job, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	dispatcher.startWorkerPool()

	return dispatcher
}

func (d *Dispatcher) startWorkerPool() {
	d.once.Do(func() {

		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.deliver)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:

			select {
			case jobChannel := <-d.workerPool:

				select {
				case jobChannel <- job:

				case <-d.ctx.Done():
					d.logger.Info("notification dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("notification dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("notification dispatcher shutting down")
			return
		}
	}
}

// Shutdown stops accepting work and waits for in-flight deliveries.
func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down notification dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}

// Subscribe registers the dispatcher for every workflow event it knows how
// to deliver.
func (d *Dispatcher) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeLeaveStatusChanged, d.HandleEvent)
	bus.Subscribe(events.EventTypeTourPlanStatusChanged, d.HandleEvent)
}

// HandleEvent is the bus entry point. It only queues; delivery happens on
// the worker pool.
func (d *Dispatcher) HandleEvent(ctx context.Context, event events.Event) error {
	statusEvent, ok := event.(*events.StatusChangedEvent)
	if !ok {
		d.logger.Warn("notification dispatcher received unexpected event",
			"event_type", event.EventType())
		return nil
	}

	return d.Enqueue(Job{
		Event:          statusEvent.EventType(),
		Module:         statusEvent.Module,
		RecordID:       statusEvent.RecordID,
		OrganizationID: statusEvent.OrganizationID,
		OwnerID:        statusEvent.OwnerID,
		Status:         statusEvent.Status,
		Reason:         statusEvent.Reason,
		ActorID:        statusEvent.ActorID,
		OccurredAt:     statusEvent.OccurredAt(),
	})
}

// Enqueue hands a job to the pool without blocking; a full queue rejects
// the job rather than stalling the caller.
func (d *Dispatcher) Enqueue(job Job) error {
	select {
	case d.jobQueue <- job:
		d.logger.Debug("notification queued",
			"module", job.Module,
			"record_id", job.RecordID,
			"queue_length", len(d.jobQueue))
		return nil
	default:
		d.logger.Warn("notification queue full, dropping job",
			"module", job.Module,
			"record_id", job.RecordID,
			"queue_capacity", cap(d.jobQueue))
		return fmt.Errorf("notification queue full")
	}
}

func (d *Dispatcher) deliver(job Job) {
	select {
	case <-d.ctx.Done():
		d.logger.Info("notification delivery cancelled", "record_id", job.RecordID)
		return
	default:
	}

	payload, err := json.Marshal(job)
	if err != nil {
		d.logger.Error("failed to marshal notification payload", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(d.ctx, d.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		d.logger.Error("failed to create webhook request",
			"error", err,
			"record_id", job.RecordID)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Error("webhook delivery failed",
			"error", err,
			"module", job.Module,
			"record_id", job.RecordID)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		d.logger.Info("webhook delivered",
			"module", job.Module,
			"record_id", job.RecordID,
			"status", job.Status,
			"status_code", resp.StatusCode)
	} else {
		d.logger.Warn("webhook endpoint answered with an error",
			"module", job.Module,
			"record_id", job.RecordID,
			"status_code", resp.StatusCode)
	}
}
