package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/service"
	"github.com/greencycle/ecotrack-backend/pkg/response"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		if err.Error() == "invalid credentials" {
			response.ErrorMessage(c, http.StatusUnauthorized, err.Error())
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}
