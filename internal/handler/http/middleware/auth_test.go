package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestHandler(ja *jwtauth.JWTAuth, called *bool) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
	return jwtauth.Verifier(ja)(AuthRequired(ja)(next))
}

func encodeAuthTestToken(t *testing.T, ja *jwtauth.JWTAuth, claims map[string]interface{}) string {
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	_, tokenString, err := ja.Encode(claims)
	require.NoError(t, err)
	return tokenString
}

func TestAuthRequired_AcceptsAccessToken(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("middleware-test-secret"), nil)
	var called bool
	handler := newAuthTestHandler(ja, &called)

	token := encodeAuthTestToken(t, ja, map[string]interface{}{
		"user_id": "user-1",
		"type":    "access",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestAuthRequired_RejectsNonAccessToken(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("middleware-test-secret"), nil)

	cases := map[string]map[string]interface{}{
		"refresh token":      {"user_id": "user-1", "type": "refresh"},
		"missing type claim": {"user_id": "user-1"},
		"non-string type":    {"user_id": "user-1", "type": 7},
	}

	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			var called bool
			handler := newAuthTestHandler(ja, &called)
			token := encodeAuthTestToken(t, ja, claims)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, called)
		})
	}
}

func TestAuthRequired_RejectsMissingToken(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("middleware-test-secret"), nil)
	var called bool
	handler := newAuthTestHandler(ja, &called)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}
