package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/churnscore/scoring"
	"github.com/inference-sim/churnscore/scoring/evaluation"
)

// ScoreRequest is the body of POST /api/v1/score.
type ScoreRequest struct {
	Record scoring.Record `json:"record"`
}

// ScoreResponse is the result of scoring one record.
type ScoreResponse struct {
	Label   scoring.Label `json:"label" yaml:"label"`
	Verdict string        `json:"verdict" yaml:"verdict"`
}

// BatchScoreRequest is the body of POST /api/v1/score/batch.
type BatchScoreRequest struct {
	Records []scoring.Record `json:"records"`
}

// BatchScoreResponse holds labels in request order.
type BatchScoreResponse struct {
	Labels []scoring.Label `json:"labels" yaml:"labels"`
}

// EvaluateRequest is the body of POST /api/v1/evaluate.
type EvaluateRequest struct {
	Records []scoring.LabeledRecord `json:"records"`
}

// EvaluateResponse wraps an evaluation report.
type EvaluateResponse struct {
	Report *evaluation.Report            `json:"report" yaml:"report"`
	Misses []evaluation.PredictionRecord `json:"misses,omitempty" yaml:"misses,omitempty"`
}

// maxRecordBytes bounds the encoded size of one record in a request body.
const maxRecordBytes = 4 << 10

// requestObserver receives one call per served HTTP request.
type requestObserver interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration)
}

// Handlers serves the scoring API over a loaded Service.
type Handlers struct {
	svc      *scoring.Service
	cfg      ServerConfig
	requests requestObserver
}

func NewHandlers(svc *scoring.Service, cfg ServerConfig, requests requestObserver) *Handlers {
	return &Handlers{svc: svc, cfg: cfg, requests: requests}
}

// NewRouter builds the gin engine: recovery, access log, request metrics,
// health check and the /api/v1 routes.
func NewRouter(h *Handlers) *gin.Engine {
	if h.cfg.Env == "prod" || h.cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(h.metricsMiddleware())

	router.GET("/health/self", h.handleHealth)
	h.RegisterRoutes(router)
	return router
}

func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(h.bodyLimitMiddleware())
	api.Use(h.timeoutMiddleware())
	{
		api.POST("/score", h.handleScore)
		api.POST("/score/batch", h.handleScoreBatch)
		api.POST("/evaluate", h.handleEvaluate)
	}
}

func (h *Handlers) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if h.requests != nil {
			h.requests.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
		}
	}
}

// bodyLimitMiddleware caps request bodies at max_batch_size records so an
// oversized batch is rejected while it is read, not after.
func (h *Handlers) bodyLimitMiddleware() gin.HandlerFunc {
	limit := int64(h.cfg.MaxBatchSize+1) * maxRecordBytes
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// timeoutMiddleware bounds each API request by request_timeout.
func (h *Handlers) timeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (h *Handlers) handleHealth(c *gin.Context) {
	if _, err := h.svc.Pipeline(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "false", "state": h.svc.State().String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "true", "state": h.svc.State().String()})
}

func (h *Handlers) handleScore(c *gin.Context) {
	var req ScoreRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Pipeline()
	if err != nil {
		handleError(c, err)
		return
	}
	label, err := p.Score(req.Record)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ScoreResponse{Label: label, Verdict: scoring.Verdict(label)})
}

func (h *Handlers) handleScoreBatch(c *gin.Context) {
	var req BatchScoreRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.checkBatchSize(c, len(req.Records)) {
		return
	}
	p, err := h.svc.Pipeline()
	if err != nil {
		handleError(c, err)
		return
	}
	labels, err := p.ScoreBatch(c.Request.Context(), req.Records)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, BatchScoreResponse{Labels: labels})
}

func (h *Handlers) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.checkBatchSize(c, len(req.Records)) {
		return
	}
	p, err := h.svc.Pipeline()
	if err != nil {
		handleError(c, err)
		return
	}
	report, tr, err := evaluation.Evaluate(c.Request.Context(), p, req.Records)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, EvaluateResponse{Report: report, Misses: tr.Misses()})
}

// bindJSON decodes the request body into req, answering 413 for a body over
// the size limit and 400 for anything else it cannot decode.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
	return false
}

func (h *Handlers) checkBatchSize(c *gin.Context, n int) bool {
	if n > h.cfg.MaxBatchSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("batch of %d records exceeds max_batch_size %d", n, h.cfg.MaxBatchSize),
		})
		return false
	}
	return true
}

// handleError maps scoring errors to HTTP responses. Input problems are the
// caller's; everything else is logged as a server fault.
func handleError(c *gin.Context, err error) {
	status := errorStatus(err)
	body := gin.H{"error": err.Error()}
	var be *scoring.BatchError
	if errors.As(err, &be) {
		body["index"] = be.Index
	}
	if status >= http.StatusInternalServerError {
		logrus.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, body)
}

func errorStatus(err error) int {
	switch {
	case scoring.IsRequestError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, scoring.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
