package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ragbench/src/infrastructure/job"
	"ragbench/src/storage/postgres/recordctrl"
	"ragbench/src/storage/postgres/runctrl"
)

type Handler struct {
	runService    *runctrl.RunService
	recordService *recordctrl.RecordService
	jobService    *job.JobService
}

func NewHandler(runService *runctrl.RunService, recordService *recordctrl.RecordService, jobService *job.JobService) *Handler {
	return &Handler{
		runService:    runService,
		recordService: recordService,
		jobService:    jobService,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	// Evaluation run routes
	api.POST("/runs", h.CreateRun)
	api.GET("/runs", h.ListRuns)
	api.GET("/runs/:id", h.GetRun)
	api.GET("/runs/:id/records", h.GetRunRecords)

	// System routes
	api.GET("/health", h.CheckHealth)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	c.JSON(status, ErrorResponse{
		Code:    http.StatusText(status),
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, body interface{}) {
	c.JSON(status, body)
}
