package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cropwise/fieldadvisor/internal/domain/auth"
	"github.com/cropwise/fieldadvisor/internal/domain/diagnosis"
	"github.com/cropwise/fieldadvisor/internal/domain/farm"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc      auth.Service
	farmSvc      farm.Service
	diagnosisSvc diagnosis.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(authSvc auth.Service, farmSvc farm.Service, diagnosisSvc diagnosis.Service, logger *slog.Logger) *Handler {
	return &Handler{
		authSvc:      authSvc,
		farmSvc:      farmSvc,
		diagnosisSvc: diagnosisSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Register creates an account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	user, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusCreated, user)
}

// Login exchanges credentials for a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, resp)
}

// Refresh rotates a token pair using the refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, resp)
}

// Profile returns the authenticated user's account.
func (h *Handler) Profile(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}
	user, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, user)
}

type assignRolesPayload struct {
	UserID int64    `json:"userId"`
	Roles  []string `json:"roles"`
}

// AssignRoles replaces a user's role set. Requires the user.manage capability.
func (h *Handler) AssignRoles(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return
	}
	var req assignRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	user, err := h.authSvc.AssignRoles(c.Request.Context(), principal, req.UserID, req.Roles)
	if err != nil {
		abortWithError(c, domainHTTPError(err))
		return
	}
	respond(c, http.StatusOK, user)
}
