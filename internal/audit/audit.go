package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Entry is a single auditable action.
type Entry struct {
	ActorUserID  uuid.UUID
	Action       string
	ResourceType string
	ResourceID   uuid.UUID
	Details      map[string]any
}

// Recorder persists audit entries, optionally inside the caller's transaction.
type Recorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry Entry) error
	ListByResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]models.AuditLog, error)
}

type recorder struct {
	db *gorm.DB
}

// NewRecorder builds an audit recorder bound to the provided DB.
func NewRecorder(db *gorm.DB) (Recorder, error) {
	if db == nil {
		return nil, fmt.Errorf("audit recorder requires a database")
	}
	return &recorder{db: db}, nil
}

func (r *recorder) Record(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if entry.Action == "" || entry.ResourceType == "" {
		return fmt.Errorf("audit entry requires action and resource type")
	}

	var details json.RawMessage
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
		details = raw
	}

	row := &models.AuditLog{
		ActorUserID:  entry.ActorUserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Details:      details,
	}

	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(row).Error
}

func (r *recorder) ListByResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
