package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/queue"
	"github.com/visadesk/backend/internal/services/document"
)

// DocumentCleanupPayload identifies the application whose documents are
// to be removed from the media host.
type DocumentCleanupPayload struct {
	ApplicationID uuid.UUID `json:"application_id"`
}

// RegisterJobs wires every job handler into the queue.
func RegisterJobs(q *queue.Queue, db *gorm.DB, store document.Store) {
	q.RegisterHandler(queue.JobTypeDocumentCleanup, DocumentCleanupHandler(db, store))
}

// DocumentCleanupHandler deletes all documents referencing a removed
// application: first the hosted files, then the metadata rows. A host
// failure leaves the remaining rows for the retry.
func DocumentCleanupHandler(db *gorm.DB, store document.Store) queue.JobHandler {
	return func(ctx context.Context, job queue.Job) error {
		var payload DocumentCleanupPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("invalid document cleanup payload: %w", err)
		}

		var docs []database.Document
		if err := db.Where("application_id = ?", payload.ApplicationID).Find(&docs).Error; err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}

		for _, doc := range docs {
			if doc.ProviderPublicID != "" {
				if err := store.Destroy(ctx, doc.ProviderPublicID); err != nil {
					return fmt.Errorf("failed to destroy hosted file %s: %w", doc.ProviderPublicID, err)
				}
			}
			if err := db.Delete(&database.Document{}, "id = ?", doc.ID).Error; err != nil {
				return fmt.Errorf("failed to delete document row: %w", err)
			}
		}

		if len(docs) > 0 {
			log.Printf("document cleanup: removed %d documents for application %s", len(docs), payload.ApplicationID)
		}
		return nil
	}
}
