package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greencycle/ecotrack-backend/internal/service"
	"github.com/greencycle/ecotrack-backend/pkg/response"
)

type LeaderboardHandler struct {
	service service.EcoPointsService
}

func NewLeaderboardHandler(service service.EcoPointsService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// GetRanking returns the top users by eco-points. Supports ?limit and
// ?period=all_time|weekly|monthly.
func (h *LeaderboardHandler) GetRanking(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.service.GetRanking(c.Request.Context(), limit, c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entries)
}

// GetMyActions returns the authenticated user's eco-point ledger entries.
func (h *LeaderboardHandler) GetMyActions(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	actions, err := h.service.GetUserActions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, actions)
}
