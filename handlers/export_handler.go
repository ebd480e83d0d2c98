package handlers

import (
	"mime"
	"net/http"

	"quizapi/services"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) ListFormats(c *gin.Context) {
	c.JSON(http.StatusOK, h.exportService.Formats())
}

func (h *ExportHandler) ExportQuiz(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	result, err := h.exportService.ExportQuiz(c.Request.Context(), quizID, c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
