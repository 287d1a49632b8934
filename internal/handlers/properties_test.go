package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/roomrental/internal/handlers/testutil"
	"github.com/charlesng35/roomrental/internal/models"
)

func TestPropertyCRUD(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/properties", gin.H{
		"name":         "Campus House",
		"address":      "9 College Ave, Portland",
		"contactEmail": "office@campus.example",
		"utilities":    gin.H{"water": "included"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := testutil.Decode[models.Property](t, w)
	require.Equal(t, "Campus House", created.Name)
	require.NotNil(t, created.Utilities.Data())
	require.Equal(t, "included", created.Utilities.Data().Water)

	w = env.Request(http.MethodGet, "/api/properties", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, testutil.Decode[[]models.Property](t, w), 1)

	w = env.Request(http.MethodPut, "/api/properties/"+created.ID, gin.H{"managementCompany": "Acme Lettings"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Acme Lettings", testutil.Decode[models.Property](t, w).ManagementCompany)

	w = env.Request(http.MethodDelete, "/api/properties/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Property deleted successfully", testutil.Decode[map[string]any](t, w)["message"])

	w = env.Request(http.MethodGet, "/api/properties/"+created.ID, nil)
	testutil.RequireError(t, w, http.StatusNotFound, "Property not found")
}

func TestCreatePropertyValidation(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/properties", gin.H{"name": "No Address"})
	testutil.RequireError(t, w, http.StatusBadRequest, "Name and address are required")

	w = env.Request(http.MethodPost, "/api/properties", gin.H{
		"name": "Bad Email", "address": "1 Street", "contactEmail": "nope",
	})
	testutil.RequireError(t, w, http.StatusBadRequest, "contactEmail must be a valid email address")
}
