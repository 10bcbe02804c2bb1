package runctrl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one evaluation run: the pipeline configuration it was started with
// and, once finished, its counts and score summary.
type Run struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	Label            string    `gorm:"not null" json:"label"`
	Status           RunStatus `gorm:"not null" json:"status"`
	DocsDir          string    `gorm:"not null" json:"docs_dir"`
	ChunkSize        int       `json:"chunk_size"`
	ChunkOverlap     int       `json:"chunk_overlap"`
	QuestionsPerNode int       `json:"questions_per_node"`
	TopK             int       `json:"top_k"`
	DocumentCount    int       `json:"document_count"`
	NodeCount        int       `json:"node_count"`
	ExampleCount     int       `json:"example_count"`
	Shortfall        int       `json:"shortfall"`
	SummaryJSON      string    `gorm:"column:summary_json" json:"summary_json"`
	Error            *string   `json:"error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RunService struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewRunService(db *gorm.DB) (*RunService, error) {
	node, err := snowflake.NewNode(1) // Node number 1 for runs
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	return &RunService{
		db:        db,
		snowflake: node,
	}, nil
}

func (s *RunService) Create(ctx context.Context, run *Run) error {
	run.ID = s.snowflake.Generate().Int64()
	run.Status = RunStatusPending

	result := s.db.WithContext(ctx).Create(run)
	if result.Error != nil {
		return fmt.Errorf("failed to create run: %v", result.Error)
	}

	return nil
}

func (s *RunService) GetByID(ctx context.Context, id int64) (*Run, error) {
	var run Run
	result := s.db.WithContext(ctx).First(&run, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %v", result.Error)
	}
	return &run, nil
}

func (s *RunService) List(ctx context.Context, offset, limit int) ([]Run, error) {
	var runs []Run
	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&runs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list runs: %v", result.Error)
	}
	return runs, nil
}

func (s *RunService) UpdateStatus(ctx context.Context, id int64, status RunStatus, errMsg *string) error {
	result := s.db.WithContext(ctx).Model(&Run{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status": status,
		"error":  errMsg,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update run status: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run not found: %d", id)
	}
	return nil
}

// Complete stores the finished run's counts and score summary and marks it
// completed.
func (s *RunService) Complete(ctx context.Context, id int64, documentCount, nodeCount, exampleCount, shortfall int, summaryJSON string) error {
	result := s.db.WithContext(ctx).Model(&Run{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         RunStatusCompleted,
		"document_count": documentCount,
		"node_count":     nodeCount,
		"example_count":  exampleCount,
		"shortfall":      shortfall,
		"summary_json":   summaryJSON,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to complete run: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run not found: %d", id)
	}
	return nil
}
