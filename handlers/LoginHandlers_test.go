package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsahana30/AUMA-DZ/utils"
)

func getWithToken(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("X-Auth-Token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCurrentUser_ResolvesTokenToUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	token, err := utils.GenerateJWT("buyer@example.com")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, email, password FROM users`).
		WithArgs("buyer@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password"}).
			AddRow(7, "buyer@example.com", "hash"))

	r := gin.New()
	r.GET("/api/me", CurrentUser(db))

	w := getWithToken(t, r, "/api/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "buyer@example.com")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentUser_RejectsMissingAndGarbageTokens(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := gin.New()
	r.GET("/api/me", CurrentUser(db))

	w := getWithToken(t, r, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = getWithToken(t, r, "/api/me", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
