package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/internal/service"
	"github.com/greencycle/ecotrack-backend/pkg/response"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(service service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create accepts multipart form data so photos can ride along with the fields.
func (h *ReportHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.CreateReportInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	var photos []service.PhotoFile
	var files []multipart.File
	closeFiles := func() {
		for _, f := range files {
			f.Close()
		}
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fileHeader := range form.File["photos"] {
			file, err := fileHeader.Open()
			if err != nil {
				closeFiles()
				response.ErrorMessage(c, http.StatusBadRequest, "failed to read uploaded photo")
				return
			}
			files = append(files, file)

			photos = append(photos, service.PhotoFile{
				Reader:   file,
				FileName: fileHeader.Filename,
			})
		}
	}

	report, err := h.service.Create(c.Request.Context(), userID, input, photos)
	closeFiles()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, report)
}

func (h *ReportHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

func (h *ReportHandler) List(c *gin.Context) {
	filter := repository.ReportFilter{
		Status: model.ReportStatus(c.Query("status")),
		Type:   model.ReportType(c.Query("type")),
		Zone:   c.Query("zone"),
	}

	if mine := c.Query("mine"); mine == "true" {
		userID, err := response.GetUserID(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.ReporterID = userID
	}

	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, reports)
}

func (h *ReportHandler) Update(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid report id")
		return
	}

	var input dto.UpdateReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.service.UpdateDetails(c.Request.Context(), userID, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

// Transition changes a report's lifecycle status (staff only, enforced in the
// service via role capability rules).
func (h *ReportHandler) Transition(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid report id")
		return
	}

	var input dto.TransitionReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.service.Transition(c.Request.Context(), userID, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

func (h *ReportHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid report id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "report deleted"})
}
