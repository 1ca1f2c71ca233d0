package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestQueue(t *testing.T) (*Queue, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Job{}))

	return NewQueue(db, time.Second), db
}

func TestEnqueueAndProcess(t *testing.T) {
	q, db := newTestQueue(t)

	processed := 0
	q.RegisterHandler(JobTypeDocumentCleanup, func(ctx context.Context, job Job) error {
		processed++
		return nil
	})

	jobID, err := q.EnqueueJob(JobTypeDocumentCleanup, map[string]string{"application_id": uuid.NewString()})
	require.NoError(t, err)

	q.ProcessPendingOnce(context.Background())
	assert.Equal(t, 1, processed)

	var job Job
	require.NoError(t, db.First(&job, "id = ?", jobID).Error)
	assert.Equal(t, JobStatusCompleted, job.Status)
}

func TestFailedJobRetriesUntilBudgetExhausted(t *testing.T) {
	q, db := newTestQueue(t)

	attempts := 0
	q.RegisterHandler(JobTypeDocumentCleanup, func(ctx context.Context, job Job) error {
		attempts++
		return errors.New("host unreachable")
	})

	jobID, err := q.EnqueueJob(JobTypeDocumentCleanup, map[string]string{})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		q.ProcessPendingOnce(context.Background())
	}

	var job Job
	require.NoError(t, db.First(&job, "id = ?", jobID).Error)
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, job.Error, "host unreachable")
}

func TestUnknownJobTypeFails(t *testing.T) {
	q, db := newTestQueue(t)

	jobID, err := q.EnqueueJob(JobType("mystery"), nil)
	require.NoError(t, err)

	q.ProcessPendingOnce(context.Background())

	var job Job
	require.NoError(t, db.First(&job, "id = ?", jobID).Error)
	assert.Equal(t, JobStatusFailed, job.Status)
}
