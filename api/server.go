package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"mediaengine/config"
	"mediaengine/jobs"
	"mediaengine/processor"
	"mediaengine/subtitles"
	"mediaengine/types"

	"github.com/gin-gonic/gin"
)

// Processor is the job pipeline behind the API
type Processor interface {
	Submit(ctx context.Context, job types.AssemblyJob) (types.AssemblyJob, error)
	Process(ctx context.Context, job types.AssemblyJob) (types.AssemblyResult, error)
	Store() jobs.Store
}

// Server handles HTTP API requests for video assembly
type Server struct {
	processor      Processor
	serviceName    string
	secondsPerWord float64
}

// NewServer creates a new API server instance
func NewServer(proc Processor, serviceName string, secondsPerWord float64) *Server {
	return &Server{
		processor:      proc,
		serviceName:    serviceName,
		secondsPerWord: secondsPerWord,
	}
}

// AssembleResponse is returned when a job is accepted
type AssembleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SubtitlesRequest asks for an SRT document for a script
type SubtitlesRequest struct {
	Script         []types.ScriptBlock `json:"script" binding:"required"`
	SecondsPerWord float64             `json:"seconds_per_word,omitempty"`
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	g := r.Group("/api")
	g.GET("/health", s.handleHealth)
	g.POST("/assemble", s.handleAssemble)
	g.GET("/jobs", s.handleListJobs)
	g.GET("/jobs/:id", s.handleGetJob)
	g.POST("/subtitles", s.handleSubtitles)
	return r
}

// GET /api/health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": s.serviceName})
}

// handleAssemble queues a job and processes it in the background.
// POST /api/assemble
func (s *Server) handleAssemble(c *gin.Context) {
	var job types.AssemblyJob
	if err := c.ShouldBindJSON(&job); err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}

	job, err := s.processor.Submit(c.Request.Context(), job)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, processor.ErrInvalidJob) {
			status = http.StatusBadRequest
		}
		respondWithError(c, status, "Job rejected", err)
		return
	}

	log.Printf("📥 Received assembly request: id=%s", job.ID)

	go func() {
		if _, err := s.processor.Process(context.Background(), job); err != nil {
			log.Printf("❌ Assembly failed for job %s: %v", job.ID, err)
		}
	}()

	c.JSON(http.StatusAccepted, AssembleResponse{
		Success: true,
		Message: "Assembly started",
		JobID:   job.ID,
	})
}

// GET /api/jobs
func (s *Server) handleListJobs(c *gin.Context) {
	list, err := s.processor.Store().List(c.Request.Context())
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to list jobs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list, "count": len(list)})
}

// GET /api/jobs/:id
func (s *Server) handleGetJob(c *gin.Context) {
	job, err := s.processor.Store().Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, jobs.ErrNotFound) {
		respondWithError(c, http.StatusNotFound, "Job not found", nil)
		return
	}
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to load job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// handleSubtitles renders SRT for a script without assembling anything.
// POST /api/subtitles
func (s *Server) handleSubtitles(c *gin.Context) {
	var req SubtitlesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	if len(req.Script) == 0 {
		respondWithError(c, http.StatusBadRequest, "Script is empty", nil)
		return
	}

	rate := req.SecondsPerWord
	if rate == 0 {
		rate = s.secondsPerWord
	} else if !config.ValidSecondsPerWord(rate) {
		respondWithError(c, http.StatusBadRequest,
			fmt.Sprintf("seconds_per_word must be greater than 0 and at most %g", config.MaxSecondsPerWord), nil)
		return
	}

	var buf bytes.Buffer
	if err := subtitles.Encode(&buf, subtitles.EstimateCues(req.Script, rate)); err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to encode subtitles", err)
		return
	}
	c.Data(http.StatusOK, "application/x-subrip", buf.Bytes())
}

func respondWithError(c *gin.Context, status int, message string, err error) {
	resp := AssembleResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
		log.Printf("❌ API Error: %s - %v", message, err)
	}
	c.JSON(status, resp)
}
