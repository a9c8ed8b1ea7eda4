package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/domain"
)

func doRequest(env *testEnv, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestListNotifications_MissingAuthHeader(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := doRequest(env, http.MethodGet, "/api/notifications", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Access Denied"}`, rec.Body.String())
}

func TestListNotifications_MalformedAuthHeader(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	env.srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListNotifications_InvalidToken(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := doRequest(env, http.MethodGet, "/api/notifications", "garbage")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid token"}`, rec.Body.String())
}

func TestListNotifications_ReturnsOwnRecordsNewestFirst(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	_, err := env.service.CreateNotification(ctx, "u1", "older")
	require.NoError(t, err)
	_, err = env.service.CreateNotification(ctx, "u1", "newer")
	require.NoError(t, err)
	_, err = env.service.CreateNotification(ctx, "u2", "not yours")
	require.NoError(t, err)

	rec := doRequest(env, http.MethodGet, "/api/notifications", signToken(t, env.verifier, "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Message)
	assert.Equal(t, "older", list[1].Message)
}

func TestListNotifications_EmptyListIsJSONArray(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := doRequest(env, http.MethodGet, "/api/notifications", signToken(t, env.verifier, "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMarkRead_Success(t *testing.T) {
	env := newTestEnv(t, nil)
	created, err := env.service.CreateNotification(context.Background(), "u1", "endorsed you")
	require.NoError(t, err)

	rec := doRequest(env, http.MethodPatch, "/api/notifications/"+created.ID.String()+"/read", signToken(t, env.verifier, "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Read)
}

func TestMarkRead_InvalidID(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := doRequest(env, http.MethodPatch, "/api/notifications/not-a-uuid/read", signToken(t, env.verifier, "u1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkRead_OtherUsersNotification(t *testing.T) {
	env := newTestEnv(t, nil)
	created, err := env.service.CreateNotification(context.Background(), "u1", "private")
	require.NoError(t, err)

	rec := doRequest(env, http.MethodPatch, "/api/notifications/"+created.ID.String()+"/read", signToken(t, env.verifier, "u2"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Notification not found"}`, rec.Body.String())
}
