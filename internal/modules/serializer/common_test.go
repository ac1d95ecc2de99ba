package serializer

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErr_DetailOnlyOutsideRelease(t *testing.T) {
	cause := errors.New("pq: connection refused")

	gin.SetMode(gin.DebugMode)
	res := DBErr("", cause)
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "database error", res.Error)
	assert.Equal(t, "pq: connection refused", res.Detail)

	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)
	res = ParamErr("bad id", cause)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Empty(t, res.Detail)
}

func TestOK(t *testing.T) {
	res := OK(map[string]int{"n": 1})
	assert.True(t, res.Success)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, http.StatusUnauthorized, AuthErr("").Code)
}
