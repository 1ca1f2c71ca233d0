// Package queue is a small DB-backed job queue. Jobs survive restarts;
// a single worker goroutine polls for pending rows and dispatches them
// to registered handlers with a bounded retry budget.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobType defines the type of job.
type JobType string

const (
	JobTypeDocumentCleanup JobType = "document_cleanup"
)

// JobStatus defines the status of a job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents a background job row.
type Job struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type       JobType         `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status"`
	RetryCount int             `json:"retry_count" gorm:"default:0"`
	MaxRetries int             `json:"max_retries" gorm:"default:3"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// JobHandler processes one job.
type JobHandler func(ctx context.Context, job Job) error

// Queue is the DB-backed job queue.
type Queue struct {
	db       *gorm.DB
	handlers map[JobType]JobHandler
	interval time.Duration
	stop     chan struct{}
}

// NewQueue creates a new queue polling at the given interval.
func NewQueue(db *gorm.DB, interval time.Duration) *Queue {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Queue{
		db:       db,
		handlers: make(map[JobType]JobHandler),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// RegisterHandler registers a handler for a job type. Must be called
// before Start.
func (q *Queue) RegisterHandler(jobType JobType, handler JobHandler) {
	q.handlers[jobType] = handler
}

// EnqueueJob adds a job to the queue.
func (q *Queue) EnqueueJob(jobType JobType, payload interface{}) (uuid.UUID, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := Job{
		ID:         uuid.New(),
		Type:       jobType,
		Payload:    payloadBytes,
		Status:     JobStatusPending,
		MaxRetries: 3,
	}

	if err := q.db.Create(&job).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	return job.ID, nil
}

// Start runs the worker loop until Stop is called.
func (q *Queue) Start(ctx context.Context) {
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stop:
			return
		case <-ticker.C:
			q.processPending(ctx)
		}
	}
}

// Stop signals the worker loop to exit.
func (q *Queue) Stop() {
	close(q.stop)
}

// ProcessPendingOnce drains currently pending jobs once. Used by tests
// and by callers that want synchronous draining.
func (q *Queue) ProcessPendingOnce(ctx context.Context) {
	q.processPending(ctx)
}

func (q *Queue) processPending(ctx context.Context) {
	var jobs []Job
	if err := q.db.Where("status = ?", JobStatusPending).Order("created_at asc").Limit(10).Find(&jobs).Error; err != nil {
		log.Printf("queue: failed to fetch pending jobs: %v", err)
		return
	}

	for _, job := range jobs {
		q.runJob(ctx, job)
	}
}

func (q *Queue) runJob(ctx context.Context, job Job) {
	handler, ok := q.handlers[job.Type]
	if !ok {
		log.Printf("queue: no handler for job type %s", job.Type)
		q.db.Model(&Job{}).Where("id = ?", job.ID).
			Updates(map[string]interface{}{"status": JobStatusFailed, "error": "no handler registered"})
		return
	}

	// Claim the row so a second worker does not pick it up.
	claim := q.db.Model(&Job{}).
		Where("id = ? AND status = ?", job.ID, JobStatusPending).
		Update("status", JobStatusProcessing)
	if claim.Error != nil || claim.RowsAffected == 0 {
		return
	}

	if err := handler(ctx, job); err != nil {
		log.Printf("queue: job %s (%s) failed: %v", job.ID, job.Type, err)
		updates := map[string]interface{}{
			"retry_count": job.RetryCount + 1,
			"error":       err.Error(),
		}
		if job.RetryCount+1 >= job.MaxRetries {
			updates["status"] = JobStatusFailed
		} else {
			updates["status"] = JobStatusPending
		}
		q.db.Model(&Job{}).Where("id = ?", job.ID).Updates(updates)
		return
	}

	q.db.Model(&Job{}).Where("id = ?", job.ID).
		Updates(map[string]interface{}{"status": JobStatusCompleted, "error": ""})
}
