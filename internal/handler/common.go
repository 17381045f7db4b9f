package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greencycle/ecotrack-backend/pkg/response"
	"github.com/greencycle/ecotrack-backend/pkg/validator"
)

// bindError writes a 400 with a readable validation message.
func bindError(c *gin.Context, err error) {
	response.ErrorMessage(c, http.StatusBadRequest, validator.FormatValidationError(err))
}
