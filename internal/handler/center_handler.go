package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/service"
	"github.com/greencycle/ecotrack-backend/pkg/response"
)

type CenterHandler struct {
	service service.CenterService
}

func NewCenterHandler(service service.CenterService) *CenterHandler {
	return &CenterHandler{service: service}
}

func (h *CenterHandler) Create(c *gin.Context) {
	var input dto.CenterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	center, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, center)
}

func (h *CenterHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid center id")
		return
	}

	center, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, center)
}

func (h *CenterHandler) List(c *gin.Context) {
	centers, err := h.service.List(c.Request.Context(), c.Query("zone"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, centers)
}

func (h *CenterHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid center id")
		return
	}

	var input dto.CenterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	center, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, center)
}

func (h *CenterHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid center id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "center deleted"})
}

func (h *CenterHandler) AddFavorite(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	centerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid center id")
		return
	}

	if err := h.service.AddFavorite(c.Request.Context(), userID, centerID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "center favorited"})
}

func (h *CenterHandler) RemoveFavorite(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	centerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid center id")
		return
	}

	if err := h.service.RemoveFavorite(c.Request.Context(), userID, centerID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "center unfavorited"})
}

func (h *CenterHandler) ListFavorites(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	favorites, err := h.service.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, favorites)
}
