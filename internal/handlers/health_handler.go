package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/slot-scheduler/internal/httpresp"
)

type HealthHandler struct {
	calendarSource string
}

func NewHealthHandler(calendarSource string) *HealthHandler {
	return &HealthHandler{calendarSource: calendarSource}
}

func (h *HealthHandler) Get(c *gin.Context) {
	httpresp.OK(c, gin.H{
		"status":   "ok",
		"calendar": h.calendarSource,
	})
}
