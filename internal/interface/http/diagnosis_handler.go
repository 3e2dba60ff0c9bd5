package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cropwise/fieldadvisor/internal/domain/auth"
	"github.com/cropwise/fieldadvisor/internal/domain/diagnosis"
)

// DiagnosePlant handles a multipart image upload and returns the structured
// diagnosis. The form carries the image under "file" and an optional
// "plantName" hint; demo sessions are identified by the X-Session-Id header.
func (h *Handler) DiagnosePlant(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	if !auth.Authorize(principal, auth.ActionDiagnosisRun, nil) {
		abortWithError(c, NewHTTPError(http.StatusForbidden, "forbidden", "diagnosis is not permitted for this account", nil))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "diagnosis_failed", "failed to read file", err))
		return
	}
	sessionID := c.GetHeader("X-Session-Id")
	if sessionID == "" {
		sessionID = strconv.FormatInt(principal.UserID, 10)
	}
	result, err := h.diagnosisSvc.Diagnose(c.Request.Context(), diagnosis.Request{
		Image:     data,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		PlantName: c.PostForm("plantName"),
		SessionID: sessionID,
	})
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, result)
}
