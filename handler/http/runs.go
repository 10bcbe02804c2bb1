package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ragbench/src/core/rageval"
	"ragbench/src/infrastructure/job"
	"ragbench/src/storage/postgres/runctrl"
)

type createRunRequest struct {
	Label            string `json:"label"`
	DocsDir          string `json:"docsDir" binding:"required"`
	ChunkSize        int    `json:"chunkSize"`
	ChunkOverlap     int    `json:"chunkOverlap"`
	QuestionsPerNode int    `json:"questionsPerNode"`
	TopK             int    `json:"topK"`
	BatchSize        int    `json:"batchSize"`
}

// CreateRun persists a pending run and enqueues it for the worker.
func (h *Handler) CreateRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	cfg := rageval.PipelineConfig{
		DocsDir:          req.DocsDir,
		Label:            req.Label,
		ChunkSize:        req.ChunkSize,
		ChunkOverlap:     req.ChunkOverlap,
		QuestionsPerNode: req.QuestionsPerNode,
		TopK:             req.TopK,
		BatchSize:        req.BatchSize,
	}
	cfg.Defaults()

	run := &runctrl.Run{
		Label:            cfg.Label,
		DocsDir:          cfg.DocsDir,
		ChunkSize:        cfg.ChunkSize,
		ChunkOverlap:     cfg.ChunkOverlap,
		QuestionsPerNode: cfg.QuestionsPerNode,
		TopK:             cfg.TopK,
	}
	if err := h.runService.Create(c.Request.Context(), run); err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	payload, err := json.Marshal(job.EvaluationPayload{
		RunID:  run.ID,
		Config: cfg,
	})
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	if _, err := h.jobService.EnqueueJob(c.Request.Context(), job.TaskTypeEvaluation, payload); err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusAccepted, run)
}

// ListRuns lists evaluation runs, newest first.
func (h *Handler) ListRuns(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.runService.List(c.Request.Context(), offset, limit)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, runs)
}

// GetRun returns one run, including its score summary once completed.
func (h *Handler) GetRun(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	run, err := h.runService.GetByID(c.Request.Context(), id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if run == nil {
		sendError(c, http.StatusNotFound, errRunNotFound)
		return
	}

	sendJSON(c, http.StatusOK, run)
}

// GetRunRecords returns the per-example records of one run.
func (h *Handler) GetRunRecords(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	records, err := h.recordService.GetByRunID(c.Request.Context(), id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, records)
}

// CheckHealth reports whether the run store is reachable.
func (h *Handler) CheckHealth(c *gin.Context) {
	status := "healthy"
	if _, err := h.runService.List(c.Request.Context(), 0, 1); err != nil {
		status = "unhealthy"
	}

	sendJSON(c, http.StatusOK, gin.H{"status": status})
}
