package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/charlesng35/roomrental/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSuccessEchoesResource(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Success(ctx, http.StatusCreated, gin.H{"id": "lease-1", "status": "active"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "lease-1", body["id"])
	require.NotContains(t, body, "success")
}

func TestMessageMergesExtraFields(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Message(ctx, http.StatusOK, "Lease extended successfully", gin.H{"newRent": 1200})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Lease extended successfully", body["message"])
	require.EqualValues(t, 1200, body["newRent"])
}

func TestErrorWithAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, appErrors.NewNotFound("Lease"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Lease not found", body.Error)
	require.Equal(t, appErrors.ErrNotFound.Code, body.Code)
}

func TestErrorWithGenericErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/api/leases", nil)

	Error(ctx, errors.New("sqlite: database is locked"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Internal server error", body.Error)
	require.NotContains(t, rec.Body.String(), "sqlite")
}
