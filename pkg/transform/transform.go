// Package transform projects raw plan records into normalized plan metadata.
package transform

import (
	"fmt"
	"time"

	"github.com/dtnitsch/planning-repo/models"
)

// TakanonFallback is the description used when a regulation entry has no info.
const TakanonFallback = "תקנון"

// Transformer builds PlanMetadata from raw records.
type Transformer struct {
	provenance models.ProcessingMetadata
	now        func() time.Time
}

// New creates a Transformer. A nil clock uses time.Now.
func New(cfg *models.Config, now func() time.Time) *Transformer {
	if cfg == nil {
		cfg = models.DefaultConfig()
	}
	if now == nil {
		now = time.Now
	}
	return &Transformer{provenance: cfg.ProcessingMetadata(), now: now}
}

// PlanMetadata maps a raw record into its normalized metadata.
// It fails only when documentsSet has an unexpected shape.
func (t *Transformer) PlanMetadata(rec models.RawPlanRecord) (*models.PlanMetadata, error) {
	docs, err := rec.DocumentsSet()
	if err != nil {
		return nil, err
	}

	inventory, err := ClassifyDocuments(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to classify documents: %w", err)
	}

	keywords, err := SearchKeywords(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to build search keywords: %w", err)
	}

	return &models.PlanMetadata{
		BasicInfo:          BasicInfo(rec, t.now()),
		DocumentsInventory: inventory,
		SearchKeywords:     keywords,
		ProcessingMetadata: t.provenance,
	}, nil
}

// BasicInfo copies the identifying fields verbatim.
// Only status_date is normalized (whitespace trimmed, missing becomes "").
func BasicInfo(rec models.RawPlanRecord, processedAt time.Time) models.BasicInfo {
	return models.BasicInfo{
		PlanNumber:     rec.PlanNumber(),
		PlanID:         rec.PlanID(),
		City:           rec.CityText(),
		Status:         rec.Status(),
		StatusDate:     rec.StatusDate(),
		PlanType:       rec.Mahut(),
		RelationType:   rec.RelationType(),
		ProcessingDate: ISOTimestamp(processedAt),
	}
}

// ISOTimestamp formats t the way the published metadata does: local wall time,
// no zone, microseconds only when non-zero.
func ISOTimestamp(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02T15:04:05.000000")
}
