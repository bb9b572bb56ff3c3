package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/slot-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/slot-scheduler/internal/middleware"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

type AuditLogLister interface {
	List(ctx context.Context, f infraRepo.AuditLogFilter) ([]models.AuditLog, int64, error)
}

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	repo   AuditLogLister
	loc    *time.Location
	logger *zap.Logger
}

// NewAuditLogsHandler accepts a nil repo when no database is configured; the
// endpoint then answers 503.
func NewAuditLogsHandler(repo AuditLogLister, loc *time.Location, logger *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{repo: repo, loc: loc, logger: logger}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	if h.repo == nil {
		httperr.Unavailable(c, "audit_store_disabled", "Audit log storage is not configured.")
		return
	}

	f := infraRepo.AuditLogFilter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}

	// --------------------------------------------------
	// Optional date filters (business zone days)
	// --------------------------------------------------
	for _, p := range []struct {
		key string
		dst **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		d, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidInput, p.key+" must be YYYY-MM-DD.")
			return
		}
		*p.dst = &d
	}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if f.Page <= 0 {
		f.Page = 1
	}

	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}

	logs, total, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		middleware.Logger(c, h.logger).Error("audit log listing failed", zap.Error(err))
		httperr.Internal(c, "audit_list_failed", "Could not list audit logs.")
		return
	}

	httpresp.Page(c, f.Page, f.Limit, total, logs)
}
