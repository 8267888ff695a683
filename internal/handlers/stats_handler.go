package handlers

import (
	"github.com/gin-gonic/gin"

	"ecopool/internal/services"
	"ecopool/internal/utils"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Impact returns the caller's environmental and loyalty summary
func (h *StatsHandler) Impact(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.Impact(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Impact stats retrieved successfully", stats)
}

// AdminOverview returns platform-wide counters
func (h *StatsHandler) AdminOverview(c *gin.Context) {
	overview, err := h.statsService.Overview(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Overview retrieved successfully", overview)
}
