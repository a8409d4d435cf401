package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mensahub/backend/internal/domain"
)

// SnapshotReader provides the currently published menu snapshot.
type SnapshotReader interface {
	Read() *domain.Snapshot
}

// Refresher triggers and reports on feed refresh cycles.
type Refresher interface {
	TriggerRefresh(ctx context.Context) (*domain.RefreshOutcome, error)
	LastRefreshTime() time.Time
	LastError() error
	InFlight() bool
}

// Enricher runs a scoring pass over unscored catalog entries.
type Enricher interface {
	EnrichPending(ctx context.Context) (*domain.EnrichmentReport, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	snapshots SnapshotReader
	refresher Refresher
	enricher  Enricher
}

// NewHandler creates a new HTTP handler
func NewHandler(snapshots SnapshotReader, refresher Refresher, enricher Enricher) *Handler {
	return &Handler{
		snapshots: snapshots,
		refresher: refresher,
		enricher:  enricher,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mensahub-backend",
		"version": "1.0.0",
	})
}

// GetMenu returns the full published menu snapshot
func (h *Handler) GetMenu(c *gin.Context) {
	snapshot := h.snapshots.Read()
	c.JSON(http.StatusOK, gin.H{
		"menu":         snapshot.Halls,
		"refreshed_at": snapshot.RefreshedAt,
	})
}

// GetHallMenu returns the menu of a single dining hall
func (h *Handler) GetHallMenu(c *gin.Context) {
	hall := c.Param("hall")
	snapshot := h.snapshots.Read()

	dates, ok := snapshot.Halls[hall]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown dining hall: " + hall,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hall":         hall,
		"menu":         dates,
		"refreshed_at": snapshot.RefreshedAt,
	})
}

// GetHallMenuForDate returns the menu of a hall on a single date
func (h *Handler) GetHallMenuForDate(c *gin.Context) {
	hall := c.Param("hall")
	date := c.Param("date")

	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": domain.ErrInvalidRequest.Error() + ": expected date as DD.MM.YYYY, got " + date,
		})
		return
	}

	snapshot := h.snapshots.Read()
	dates, ok := snapshot.Halls[hall]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown dining hall: " + hall,
		})
		return
	}

	entries, ok := dates[date]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no menu for " + hall + " on " + date,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hall":         hall,
		"date":         date,
		"meals":        entries,
		"refreshed_at": snapshot.RefreshedAt,
	})
}

// ListHalls returns the dining halls in the current snapshot
func (h *Handler) ListHalls(c *gin.Context) {
	snapshot := h.snapshots.Read()
	c.JSON(http.StatusOK, gin.H{
		"halls": snapshot.HallNames,
	})
}

// ListDates returns the dates covered by the current snapshot
func (h *Handler) ListDates(c *gin.Context) {
	snapshot := h.snapshots.Read()
	c.JSON(http.StatusOK, gin.H{
		"dates": snapshot.Dates,
	})
}

// ListMarkings returns the legend for meal marking codes
func (h *Handler) ListMarkings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"markings": domain.Markings,
	})
}

// GetStatus reports the refresh state of the service
func (h *Handler) GetStatus(c *gin.Context) {
	snapshot := h.snapshots.Read()

	status := gin.H{
		"refresh_in_flight": h.refresher.InFlight(),
		"halls":             len(snapshot.Halls),
		"dates":             len(snapshot.Dates),
	}

	if last := h.refresher.LastRefreshTime(); !last.IsZero() {
		status["last_refresh"] = last
	}
	if err := h.refresher.LastError(); err != nil {
		status["last_error"] = err.Error()
	}

	c.JSON(http.StatusOK, status)
}

// TriggerRefresh runs a full refresh cycle
func (h *Handler) TriggerRefresh(c *gin.Context) {
	outcome, err := h.refresher.TriggerRefresh(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrRefreshInProgress) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "a refresh cycle is already running",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "refresh failed: " + err.Error(),
		})
		return
	}

	// A completed-but-failed cycle is reported, not hidden: the old
	// snapshot is still being served.
	if !outcome.Success {
		c.JSON(http.StatusBadGateway, outcome)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// TriggerEnrichment runs a scoring pass over unscored meals
func (h *Handler) TriggerEnrichment(c *gin.Context) {
	report, err := h.enricher.EnrichPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "enrichment failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempted": report.Attempted,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
	})
}
