package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

var errAuditDBRequired = errors.New("jobs: bun audit recorder requires a database")

type auditRecord struct {
	bun.BaseModel `bun:"table:feecting_job_audit,alias:fja"`

	ID         int64          `bun:"id,pk,autoincrement"`
	JobID      string         `bun:"job_id,notnull"`
	Action     string         `bun:"action,notnull"`
	OccurredAt time.Time      `bun:"occurred_at,notnull"`
	Metadata   map[string]any `bun:"metadata,type:json"`
}

// BunAuditRecorder stores audit events in a SQL table through bun.
type BunAuditRecorder struct {
	db bun.IDB
}

// NewBunAuditRecorder returns a recorder writing to db. Call CreateSchema
// once before recording.
func NewBunAuditRecorder(db bun.IDB) *BunAuditRecorder {
	return &BunAuditRecorder{db: db}
}

// CreateSchema creates the audit table when it does not exist.
func (r *BunAuditRecorder) CreateSchema(ctx context.Context) error {
	if r.db == nil {
		return errAuditDBRequired
	}
	_, err := r.db.NewCreateTable().Model((*auditRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (r *BunAuditRecorder) Record(ctx context.Context, event AuditEvent) error {
	if r.db == nil {
		return errAuditDBRequired
	}
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	record := &auditRecord{
		JobID:      event.JobID,
		Action:     event.Action,
		OccurredAt: occurred.UTC(),
		Metadata:   event.Metadata,
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	return err
}

func (r *BunAuditRecorder) List(ctx context.Context) ([]AuditEvent, error) {
	if r.db == nil {
		return nil, errAuditDBRequired
	}
	var records []auditRecord
	if err := r.db.NewSelect().Model(&records).Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]AuditEvent, 0, len(records))
	for _, record := range records {
		out = append(out, AuditEvent{
			JobID:      record.JobID,
			Action:     record.Action,
			OccurredAt: record.OccurredAt,
			Metadata:   record.Metadata,
		})
	}
	return out, nil
}

func (r *BunAuditRecorder) Clear(ctx context.Context) error {
	if r.db == nil {
		return errAuditDBRequired
	}
	_, err := r.db.NewDelete().Model((*auditRecord)(nil)).Where("1 = 1").Exec(ctx)
	return err
}

var _ AuditRecorder = (*BunAuditRecorder)(nil)
