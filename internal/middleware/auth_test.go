package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campusconnect/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(user *models.User, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(CheckUserKey, user)
		}
		c.Next()
	})
	r.Use(mw...)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func serve(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestAuthRequired(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serve(newRouter(nil, AuthRequired())).Code)
	assert.Equal(t, http.StatusNoContent, serve(newRouter(&models.User{ID: 1}, AuthRequired())).Code)
}

func TestAdminRequired(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"student", &models.User{ID: 1, Role: "user"}, http.StatusForbidden},
		{"admin", &models.User{ID: 2, Role: "admin"}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, serve(newRouter(tc.user, AuthRequired(), AdminRequired())).Code)
		})
	}
}
