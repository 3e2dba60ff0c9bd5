package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cropwise/fieldadvisor/internal/domain/auth"
	"github.com/cropwise/fieldadvisor/internal/domain/farm"
)

func (h *Handler) withPrincipal(c *gin.Context) (auth.Principal, bool) {
	principal, ok := currentPrincipal(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
	}
	return principal, ok
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}

// CreateFarm registers a new farm owned by the caller.
func (h *Handler) CreateFarm(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	var in farm.FarmInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	created, err := h.farmSvc.CreateFarm(c.Request.Context(), principal, in)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusCreated, created)
}

// ListFarms returns the farms visible to the caller.
func (h *Handler) ListFarms(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farms, err := h.farmSvc.ListFarms(c.Request.Context(), principal)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, gin.H{"items": farms})
}

// GetFarm returns one farm.
func (h *Handler) GetFarm(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	f, err := h.farmSvc.GetFarm(c.Request.Context(), principal, id)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, f)
}

// UpdateFarm replaces the mutable farm fields.
func (h *Handler) UpdateFarm(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in farm.FarmInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	updated, err := h.farmSvc.UpdateFarm(c.Request.Context(), principal, id, in)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, updated)
}

// DeleteFarm removes a farm and its child records.
func (h *Handler) DeleteFarm(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.farmSvc.DeleteFarm(c.Request.Context(), principal, id); err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": id})
}

// CreatePlant adds a plant to a farm.
func (h *Handler) CreatePlant(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in farm.PlantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	created, err := h.farmSvc.CreatePlant(c.Request.Context(), principal, farmID, in)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusCreated, created)
}

// ListPlants returns a farm's plants.
func (h *Handler) ListPlants(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	plants, err := h.farmSvc.ListPlants(c.Request.Context(), principal, farmID)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, gin.H{"items": plants})
}

// UpdatePlant replaces a plant's mutable fields.
func (h *Handler) UpdatePlant(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	plantID, ok := pathUUID(c, "plantID")
	if !ok {
		return
	}
	var in farm.PlantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	updated, err := h.farmSvc.UpdatePlant(c.Request.Context(), principal, farmID, plantID, in)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, updated)
}

// DeletePlant removes a plant.
func (h *Handler) DeletePlant(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	plantID, ok := pathUUID(c, "plantID")
	if !ok {
		return
	}
	if err := h.farmSvc.DeletePlant(c.Request.Context(), principal, farmID, plantID); err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": plantID})
}

// CreateSpray logs a pesticide application.
func (h *Handler) CreateSpray(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in farm.SprayInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	created, err := h.farmSvc.CreateSpray(c.Request.Context(), principal, farmID, in)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusCreated, created)
}

// ListSprays returns a farm's spray history.
func (h *Handler) ListSprays(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sprays, err := h.farmSvc.ListSprays(c.Request.Context(), principal, farmID)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, gin.H{"items": sprays})
}

// DeleteSpray removes a spray record.
func (h *Handler) DeleteSpray(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sprayID, ok := pathUUID(c, "sprayID")
	if !ok {
		return
	}
	if err := h.farmSvc.DeleteSpray(c.Request.Context(), principal, farmID, sprayID); err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": sprayID})
}

// CreateWeatherRecord stores a manual weather observation.
func (h *Handler) CreateWeatherRecord(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var in farm.WeatherInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	created, err := h.farmSvc.CreateWeatherRecord(c.Request.Context(), principal, farmID, in)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusCreated, created)
}

// ListWeatherRecords returns a farm's recorded observations.
func (h *Handler) ListWeatherRecords(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	records, err := h.farmSvc.ListWeatherRecords(c.Request.Context(), principal, farmID)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, gin.H{"items": records})
}

// DeleteWeatherRecord removes a weather record.
func (h *Handler) DeleteWeatherRecord(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	recordID, ok := pathUUID(c, "recordID")
	if !ok {
		return
	}
	if err := h.farmSvc.DeleteWeatherRecord(c.Request.Context(), principal, farmID, recordID); err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": recordID})
}

// RecommendPlanting runs the forecast pipeline and attaches the advisory
// plus suitability status to the weather record.
func (h *Handler) RecommendPlanting(c *gin.Context) {
	principal, ok := h.withPrincipal(c)
	if !ok {
		return
	}
	farmID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	recordID, ok := pathUUID(c, "recordID")
	if !ok {
		return
	}
	var in farm.RecommendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	result, err := h.farmSvc.RecommendPlanting(c.Request.Context(), principal, farmID, recordID, in)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, result)
}
