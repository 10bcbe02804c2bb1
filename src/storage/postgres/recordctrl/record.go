package recordctrl

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Record is one per-example evaluation result row. Scores and failures are
// stored as JSON keyed by rubric name.
type Record struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	RunID           int64     `gorm:"not null;index" json:"run_id"`
	Label           string    `gorm:"not null" json:"label"`
	NodeID          string    `gorm:"not null" json:"node_id"`
	Question        string    `gorm:"not null" json:"question"`
	ReferenceAnswer string    `json:"reference_answer"`
	PredictedAnswer string    `json:"predicted_answer"`
	ScoresJSON      string    `gorm:"column:scores_json" json:"scores_json"`
	FailuresJSON    string    `gorm:"column:failures_json" json:"failures_json"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type RecordService struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewRecordService(db *gorm.DB) (*RecordService, error) {
	node, err := snowflake.NewNode(2) // Node number 2 for records
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	return &RecordService{
		db:        db,
		snowflake: node,
	}, nil
}

func (s *RecordService) CreateBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	for i := range records {
		records[i].ID = s.snowflake.Generate().Int64()
	}

	result := s.db.WithContext(ctx).Create(&records)
	if result.Error != nil {
		return fmt.Errorf("failed to create records: %v", result.Error)
	}

	return nil
}

func (s *RecordService) GetByRunID(ctx context.Context, runID int64) ([]Record, error) {
	var records []Record
	result := s.db.WithContext(ctx).Where("run_id = ?", runID).Order("id").Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get records: %v", result.Error)
	}
	return records, nil
}

func (s *RecordService) DeleteByRunID(ctx context.Context, runID int64) error {
	result := s.db.WithContext(ctx).Where("run_id = ?", runID).Delete(&Record{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete records: %v", result.Error)
	}
	return nil
}
