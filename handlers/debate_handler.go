package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"threadjudge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DebateHandler handles HTTP requests for debates and their analyses
type DebateHandler struct {
	debateService   *service.DebateService
	analysisService *service.AnalysisService
}

// NewDebateHandler creates a new debate handler
func NewDebateHandler(debateService *service.DebateService, analysisService *service.AnalysisService) *DebateHandler {
	return &DebateHandler{
		debateService:   debateService,
		analysisService: analysisService,
	}
}

// CreateDebateRequest represents the request body for creating a debate
type CreateDebateRequest struct {
	Title           string                 `json:"title"`
	CentralQuestion string                 `json:"central_question" binding:"required"`
	ProPosition     string                 `json:"pro_position"`
	ConPosition     string                 `json:"con_position"`
	Comments        []service.CommentInput `json:"comments" binding:"required"`
}

// CreateDebate handles POST /api/debates
func (h *DebateHandler) CreateDebate(c *gin.Context) {
	var req CreateDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	serviceReq := service.CreateDebateRequest{
		Title:           req.Title,
		CentralQuestion: req.CentralQuestion,
		ProPosition:     req.ProPosition,
		ConPosition:     req.ConPosition,
		Comments:        req.Comments,
	}

	result, err := h.debateService.CreateDebate(c.Request.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, service.ErrMissingQuestion) ||
			errors.Is(err, service.ErrMissingComments) ||
			errors.Is(err, service.ErrDuplicateCommentID) ||
			errors.Is(err, service.ErrUnknownParent) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DEBATE",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Debate,
	})
}

// GetDebate handles GET /api/debates/:id
func (h *DebateHandler) GetDebate(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid debate ID format",
			},
		})
		return
	}

	result, err := h.debateService.GetDebate(c.Request.Context(), service.GetDebateRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Debate not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"debate":   result.Debate,
			"comments": result.Comments,
		},
	})
}

// ListDebates handles GET /api/debates
func (h *DebateHandler) ListDebates(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.debateService.ListDebates(c.Request.Context(), service.ListDebatesRequest{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Debates,
	})
}

// AnalyzeDebate handles POST /api/debates/:id/analyze
func (h *DebateHandler) AnalyzeDebate(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid debate ID format",
			},
		})
		return
	}

	// Create job (synchronous, fast)
	result, err := h.analysisService.StartAnalysis(c.Request.Context(), service.StartAnalysisRequest{DebateID: id})
	if err != nil {
		if errors.Is(err, service.ErrDebateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Debate not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	// Spawn background goroutine for the actual pipeline.
	// Use background context (not request context) to avoid cancellation.
	go func() {
		bgCtx := context.Background()
		if err := h.analysisService.ProcessAnalysis(bgCtx, result.JobID); err != nil {
			// Error is stored in job.ErrorMessage; clients poll status
			log.Printf("Analysis job %s failed: %v", result.JobID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id":  result.JobID,
			"status":  "pending",
			"message": "Analysis job created. Poll /api/jobs/:id for updates.",
		},
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *DebateHandler) GetJobStatus(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	result, err := h.analysisService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{JobID: id})
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Analysis job not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}

// GetVerdict handles GET /api/debates/:id/verdict
func (h *DebateHandler) GetVerdict(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid debate ID format",
			},
		})
		return
	}

	result, err := h.debateService.GetVerdict(c.Request.Context(), service.GetVerdictRequest{DebateID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "No verdict for this debate",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Verdict,
	})
}
