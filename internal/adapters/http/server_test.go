package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/aretw0/spiritual/internal/adapters/http"
	"github.com/aretw0/spiritual/pkg/adapters/memory"
	"github.com/aretw0/spiritual/pkg/catalog"
	"github.com/aretw0/spiritual/pkg/persistence"
	"github.com/aretw0/spiritual/pkg/persistence/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (http.Handler, *persistence.Profiles) {
	t.Helper()
	reg := prometheus.NewRegistry()
	store := middleware.Chain(memory.NewStore(), middleware.NewMetrics(reg).Middleware())
	profiles := persistence.NewProfiles(store, memory.NewLocker())

	source, err := memory.NewSource(map[string]any{
		"abilities/fire": map[string]any{"name": "fire", "effects": []string{"burn"}},
		"tilemaps/spawn": map[string]any{
			"boolmaps": map[string]any{"grass": [][]int{{1, 0}}},
			"sources":  map[string]any{},
		},
	})
	require.NoError(t, err)
	c, err := catalog.NewLoader(source).Load(context.Background())
	require.NoError(t, err)

	return api.NewHandler(&api.Server{Profiles: profiles, Catalog: c, Gatherer: reg}), profiles
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestProfiles_Lifecycle(t *testing.T) {
	h, _ := newServer(t)

	w := do(h, http.MethodPost, "/profiles", `{"player_name": "Aria"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Body.String(), `{"player_name":"Aria","achievements":{}`), "field order is kept")

	w = do(h, http.MethodPost, "/profiles", `{"player_name": "Aria"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(h, http.MethodPut, "/profiles/Aria/achievements/first_steps", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"achievements":{"first_steps":true}`)

	w = do(h, http.MethodPut, "/profiles/Aria/skills/archery", `{"level": 2.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"skills":{"archery":2.5}`)

	w = do(h, http.MethodGet, "/profiles/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal(t, []string{"Aria"}, names)

	w = do(h, http.MethodDelete, "/profiles/Aria", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(h, http.MethodGet, "/profiles/Aria", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfiles_BadRequests(t *testing.T) {
	h, _ := newServer(t)

	tests := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodPost, "/profiles", `not json`, http.StatusBadRequest},
		{http.MethodPost, "/profiles", `{"player_name": ""}`, http.StatusBadRequest},
		{http.MethodPut, "/profiles/Aria/skills/archery", `{}`, http.StatusBadRequest},
		{http.MethodPut, "/profiles/Nobody/achievements/x", ``, http.StatusNotFound},
	}
	for _, tt := range tests {
		w := do(h, tt.method, tt.target, tt.body)
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.target)
	}
}

func TestCatalog(t *testing.T) {
	h, _ := newServer(t)

	w := do(h, http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	var index map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &index))
	assert.Equal(t, []string{"fire"}, index["abilities"])
	assert.Equal(t, []string{"spawn"}, index["tilemaps"])

	w = do(h, http.MethodGet, "/catalog/abilities/fire", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"fire","effects":["burn"]}`, w.Body.String())

	w = do(h, http.MethodGet, "/catalog/abilities/ice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(h, http.MethodGet, "/catalog/spells/fire", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(h, http.MethodGet, "/tilemaps/spawn", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tilemap":[["grass"],["empty"]],"sources":{}}`, w.Body.String())
}

func TestMetricsAndHealth(t *testing.T) {
	h, _ := newServer(t)
	do(h, http.MethodGet, "/profiles/Nobody", "")

	w := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `spiritual_profile_store_operations_total{op="load",result="not_found"} 1`)

	w = do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(h, http.MethodOptions, "/profiles", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
