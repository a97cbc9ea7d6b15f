package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Wendyzhou/eventkit/docs"
	"github.com/Wendyzhou/eventkit/internal/dto"
	"github.com/Wendyzhou/eventkit/internal/ingest"
	"github.com/Wendyzhou/eventkit/internal/metrics"
	"github.com/Wendyzhou/eventkit/internal/query"
	"github.com/Wendyzhou/eventkit/internal/service"
)

type Handler struct {
	eventService service.EventServicer
	router       *gin.Engine
	maxBodyBytes int64
	log          *zap.Logger
}

func NewHandler(eventService service.EventServicer, maxBodyBytes int64, log *zap.Logger) *Handler {
	h := &Handler{
		eventService: eventService,
		router:       gin.Default(),
		maxBodyBytes: maxBodyBytes,
		log:          log,
	}

	h.router.Use(metrics.Instrument())
	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/events", h.ingestEvents)
	h.router.GET("/api/search", h.search)
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check that the event store is reachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.eventService.Health(c.Request.Context()); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status: "unavailable",
			Error:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// ingestEvents handles POST /events
// @Summary Ingest a notification batch
// @Description Store a JSON array of email delivery notifications. Items without an event field or rejected by the store are skipped. Bodies over SERVICE_MAX_BODY_BYTES are rejected with body_too_large.
// @Tags events
// @Accept json
// @Produce json
// @Param events body []object true "Notification batch"
// @Success 200 {object} dto.IngestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /events [post]
func (h *Handler) ingestEvents(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	body, err := c.GetRawData()
	if err != nil {
		h.log.Warn("Failed to read request body", zap.Error(err))
		code := "parse_error"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			code = "body_too_large"
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	out, err := h.eventService.IngestBatch(c.Request.Context(), body)
	if err != nil {
		code := "shape_error"
		if errors.Is(err, ingest.ErrParse) {
			code = "parse_error"
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.IngestResponse{
		Status:   "accepted",
		BatchID:  out.BatchID,
		Received: out.Received,
		Accepted: out.Accepted,
		Skipped:  out.Skipped,
	})
}

// search handles GET /api/search
// @Summary Search stored notifications
// @Description Run one of the recent, total, wildcard, email_stats or detailed queries. Invalid parameters yield an empty result.
// @Tags search
// @Produce json
// @Produce text/csv
// @Param query query string true "Query mode" Enums(recent, total, wildcard, email_stats, detailed)
// @Param limit query int false "Row limit for recent" example:"5"
// @Param hours query number false "Window in hours for total" example:"24"
// @Param text query string false "Substring for wildcard" example:"example.com"
// @Param email query string false "Recipient for email_stats" example:"user@example.com"
// @Param event query string false "Comma separated labels for email_stats" example:"delivered,open"
// @Param match query string false "all for AND, anything else for OR (detailed)" example:"all"
// @Param dateStart query string false "Lower timestamp bound, unix seconds or YYYY-MM-DD" example:"2024-01-01"
// @Param dateEnd query string false "Upper timestamp bound, unix seconds or YYYY-MM-DD" example:"2024-01-31"
// @Param resultsPerPage query int false "Row limit for detailed" example:"50"
// @Param csv query string false "Return rows as CSV when set to 1" example:"1"
// @Success 200 {object} object
// @Router /api/search [get]
func (h *Handler) search(c *gin.Context) {
	params := query.FromValues(c.Request.URL.Query())
	res := h.eventService.Search(c.Request.Context(), params)

	if res.Kind == query.KindRows && params.WantsCSV() {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="events.csv"`)
		c.Status(http.StatusOK)
		if err := res.WriteCSV(c.Writer); err != nil {
			h.log.Error("Failed to write CSV", zap.String("mode", res.Mode), zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusOK, res.Body())
}

