package ui

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"progeval/app"
	"progeval/domain/core"
	"progeval/domain/study"
	"progeval/internal/analysis/power"
	apperrors "progeval/internal/errors"
)

// Server is the JSON API over the evaluation service. It serves power
// analysis, on-demand evaluation of the configured dataset, and access to
// archived reports.
type Server struct {
	router  *gin.Engine
	svc     *app.EvaluationService
	dataset *study.Dataset
	source  string
	spec    app.AnalysisSpec
}

// NewServer creates the API server around a loaded dataset and its column
// mapping.
func NewServer(svc *app.EvaluationService, dataset *study.Dataset, source string, spec app.AnalysisSpec) *Server {
	s := &Server{
		router:  gin.Default(),
		svc:     svc,
		dataset: dataset,
		source:  source,
		spec:    spec,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/power", s.handlePower)
	api.POST("/evaluate", s.handleEvaluate)
	api.GET("/reports", s.handleListReports)
	api.GET("/reports/:id", s.handleGetReport)
}

// Run starts the HTTP server on the given address
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"source":  s.source,
		"records": s.dataset.Len(),
	})
}

// PowerRequest is the API shape of a power analysis. Exactly one field must
// be omitted; it is the one solved for.
type PowerRequest struct {
	EffectSize *float64 `json:"effect_size"`
	Alpha      *float64 `json:"alpha"`
	Power      *float64 `json:"power"`
	SampleSize *int     `json:"sample_size"`
}

func (s *Server) handlePower(c *gin.Context) {
	var req PowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := s.svc.PlanStudy(power.Request{
		EffectSize: req.EffectSize,
		Alpha:      req.Alpha,
		Power:      req.Power,
		SampleSize: req.SampleSize,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleEvaluate(c *gin.Context) {
	report, err := s.svc.Evaluate(c.Request.Context(), s.dataset, s.source, s.spec)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	summaries, err := s.svc.ListReports(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": summaries})
}

func (s *Server) handleGetReport(c *gin.Context) {
	report, err := s.svc.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// statusFor maps application error codes to HTTP status codes
func statusFor(err error) int {
	if core.IsDatasetError(err) || core.IsParameterError(err) || core.IsAnalysisError(err) {
		return http.StatusBadRequest
	}
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeConfigInvalid:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
