package serializer

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var log = zap.NewNop()

// SetLogger sets the logger used to report server errors.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Response
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Msg     string      `json:"msg,omitempty"`
	Error   string      `json:"error,omitempty"`
	// Detail carries the raw error chain outside release mode.
	Detail string `json:"detail,omitempty"`
}

// OK
func OK(data interface{}) Response {
	return Response{Success: true, Code: http.StatusOK, Data: data}
}

// Created
func Created(data interface{}) Response {
	return Response{Success: true, Code: http.StatusCreated, Data: data}
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code:  errCode,
		Error: msg,
	}
	if errCode >= http.StatusInternalServerError && err != nil {
		log.Error(msg, zap.Int("code", errCode), zap.Error(err))
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Detail = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}
