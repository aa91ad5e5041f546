package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"learnhub-storefront-api/database"
	"learnhub-storefront-api/models"
	"learnhub-storefront-api/queue"
	"learnhub-storefront-api/services/catalog"
	"learnhub-storefront-api/services/notification"
)

// Worker drains the order queue in the background so checkout can answer
// immediately.
type Worker struct {
	queue     *queue.Queue
	db        *database.Connection
	catalog   *catalog.Service
	notifier  notification.Notifier
	shutdown  chan struct{}
	isRunning bool
}

func NewWorker(q *queue.Queue, db *database.Connection, cat *catalog.Service, notifier notification.Notifier) *Worker {
	return &Worker{
		queue:    q,
		db:       db,
		catalog:  cat,
		notifier: notifier,
		shutdown: make(chan struct{}),
	}
}

// Start begins processing jobs and the delayed-job pump.
func (w *Worker) Start(concurrency int) {
	w.isRunning = true

	for i := 0; i < concurrency; i++ {
		go w.processJobs(i)
	}
	go w.pumpDelayedJobs()

	log.Printf("Started %d worker goroutines", concurrency)
}

func (w *Worker) Stop() {
	if !w.isRunning {
		return
	}

	log.Println("Stopping worker...")
	close(w.shutdown)
	w.isRunning = false
}

func (w *Worker) processJobs(workerID int) {
	log.Printf("Worker %d starting", workerID)

	for {
		select {
		case <-w.shutdown:
			log.Printf("Worker %d shutting down", workerID)
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			job, err := w.queue.Dequeue(ctx, 5*time.Second)
			cancel()

			if err != nil {
				log.Printf("Worker %d: Error dequeuing job: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}

			if job == nil {
				time.Sleep(100 * time.Millisecond)
				continue
			}

			log.Printf("Worker %d processing job %s of type %s", workerID, job.ID, job.Type)

			jobErr := w.processJob(job)
			if jobErr != nil {
				log.Printf("Worker %d: Error processing job %s: %v", workerID, job.ID, jobErr)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				failErr := w.queue.FailJob(ctx, job, jobErr)
				cancel()

				if failErr != nil {
					log.Printf("Worker %d: Error marking job %s as failed: %v", workerID, job.ID, failErr)
				}

				time.Sleep(time.Second)
				continue
			}

			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			completeErr := w.queue.CompleteJob(ctx, job)
			cancel()

			if completeErr != nil {
				log.Printf("Worker %d: Error marking job %s as complete: %v", workerID, job.ID, completeErr)
			}
		}
	}
}

func (w *Worker) pumpDelayedJobs() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := w.queue.ProcessDelayedJobs(ctx); err != nil {
				log.Printf("Error processing delayed jobs: %v", err)
			}
			cancel()
		}
	}
}

func (w *Worker) processJob(job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeProcessOrder:
		return w.processOrder(job)
	case queue.JobTypeRefreshCatalog:
		return w.refreshCatalog()
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (w *Worker) processOrder(job *queue.Job) error {
	orderID, ok := job.Data["order_id"].(string)
	if !ok || orderID == "" {
		return fmt.Errorf("invalid order_id in job data")
	}
	reference, _ := job.Data["reference"].(string)
	username, _ := job.Data["username"].(string)
	itemsJSON, ok := job.Data["items_json"].(string)
	if !ok || itemsJSON == "" {
		return fmt.Errorf("invalid items_json in job data")
	}
	totalAmount, _ := job.Data["total_amount"].(float64)

	var items []models.CartLine
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return fmt.Errorf("failed to parse order items: %v", err)
	}

	if w.db == nil {
		log.Printf("No database configured, order %s (%s) not persisted", orderID, reference)
		return nil
	}

	order := models.Order{
		ID:          orderID,
		Reference:   reference,
		Username:    username,
		Items:       items,
		TotalAmount: totalAmount,
		Status:      models.OrderStatusPending,
	}

	if err := w.db.InsertOrder(order); err != nil {
		return fmt.Errorf("failed to store order %s: %v", orderID, err)
	}
	if err := w.db.UpdateOrderStatus(orderID, models.OrderStatusCompleted); err != nil {
		return fmt.Errorf("failed to complete order %s: %v", orderID, err)
	}

	if w.notifier != nil {
		w.notifier.Notify(notification.LevelSuccess,
			fmt.Sprintf("Order %s confirmed", reference))
	}
	return nil
}

func (w *Worker) refreshCatalog() error {
	if w.db == nil || w.catalog == nil {
		return fmt.Errorf("catalog refresh requires a database connection")
	}
	return w.catalog.RefreshFromDB(w.db)
}
