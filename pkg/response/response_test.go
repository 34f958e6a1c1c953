package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/photo-timeline/pkg/apperrors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("stay 4: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{apperrors.ErrRefreshInProgress, http.StatusConflict},
		{apperrors.ErrInvalidSettings, http.StatusBadRequest},
		{apperrors.ErrInvalidInput, http.StatusBadRequest},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrPhotosLibraryNotFound, http.StatusServiceUnavailable},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestFromError_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, "Failed to refresh", apperrors.ErrRefreshInProgress)

	require.Equal(t, http.StatusConflict, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusConflict, body.Code)
	assert.Equal(t, "Failed to refresh", body.Message)
	assert.Equal(t, apperrors.ErrRefreshInProgress.Error(), body.Error)
	assert.Len(t, c.Errors, 1)
}

func TestSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, map[string]int{"stays": 3})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"stays":3}}`, w.Body.String())
}
