package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mbrandt/werkstatt-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		headers      map[string]string
		expectedID   string
		expectedRole string
	}{
		{
			name: "full headers",
			headers: map[string]string{
				HeaderUserID:   "u-1",
				HeaderUserName: "Anna",
				HeaderUserRole: services.RoleAdmin,
			},
			expectedID:   "u-1",
			expectedRole: services.RoleAdmin,
		},
		{
			name:         "missing role defaults to client",
			headers:      map[string]string{HeaderUserID: "u-2"},
			expectedID:   "u-2",
			expectedRole: services.RoleClient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(ExtractActor())

			var captured services.Actor
			router.GET("/probe", func(c *gin.Context) {
				actor, err := GetActor(c)
				require.NoError(t, err)
				captured = actor
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectedID, captured.ID)
			assert.Equal(t, tt.expectedRole, captured.Role)
		})
	}
}

func TestGetActorMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, err := GetActor(c)
	require.Error(t, err)

	var actorErr *ActorError
	require.ErrorAs(t, err, &actorErr)
	assert.Equal(t, "MISSING_ACTOR", actorErr.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ExtractActor())
	router.GET("/admin-only", RequireRole(services.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// workshop role is rejected
	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set(HeaderUserRole, services.RoleWorkshop)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "INSUFFICIENT_ROLE", errObj["code"])

	// admin role passes
	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set(HeaderUserRole, services.RoleAdmin)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
