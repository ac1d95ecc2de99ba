package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/middleware"
	"github.com/saas-factory/api/internal/modules/serializer"
	"github.com/saas-factory/api/internal/modules/service"
)

// statusFor maps service error kinds to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// renderErr writes err in the envelope. Only service errors expose their message.
func renderErr(c *gin.Context, err error) {
	status := statusFor(err)
	msg := "internal server error"
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		msg = svcErr.Msg
	}
	_ = c.Error(err)
	c.JSON(status, serializer.Err(status, msg, err))
}

// caller returns the authenticated identity, writing a 401 when there is none.
func caller(c *gin.Context) (*middleware.Identity, bool) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr("authentication required"))
		return nil, false
	}
	return id, true
}

// pathID parses a uuid path parameter, writing a 400 when it is malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}
