package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocServed(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/swagger/doc.json", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title": "Budgetly API"`)
	assert.Contains(t, rec.Body.String(), `"/transactions/summary"`)
}

func TestServeOpenAPI3Spec(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/api/v1/openapi.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var spec map[string]interface{}
	decodeJSON(t, rec, &spec)

	assert.Equal(t, "3.0.3", spec["openapi"])

	servers := spec["servers"].([]interface{})
	require.NotEmpty(t, servers)
	assert.Equal(t, "http://example.com/api/v1", servers[0].(map[string]interface{})["url"])

	paths := spec["paths"].(map[string]interface{})
	create := paths["/transactions"].(map[string]interface{})["post"].(map[string]interface{})

	_, hasParams := create["parameters"]
	assert.False(t, hasParams, "body parameter should move to requestBody")

	body := create["requestBody"].(map[string]interface{})
	schema := body["content"].(map[string]interface{})["application/json"].(map[string]interface{})["schema"].(map[string]interface{})
	assert.Equal(t, "#/components/schemas/handler.TransactionRequest", schema["$ref"])

	list := paths["/transactions"].(map[string]interface{})["get"].(map[string]interface{})
	for _, p := range list["parameters"].([]interface{}) {
		param := p.(map[string]interface{})
		assert.Contains(t, param, "schema", "parameter %v", param["name"])
		assert.NotContains(t, param, "type")
	}

	patch := paths["/categories/{id}"].(map[string]interface{})["patch"].(map[string]interface{})
	params := patch["parameters"].([]interface{})
	require.Len(t, params, 1)
	assert.Equal(t, "path", params[0].(map[string]interface{})["in"])
	assert.Contains(t, patch, "requestBody")

	components := spec["components"].(map[string]interface{})
	assert.Contains(t, components["schemas"], "handler.BudgetResponse")
	assert.Contains(t, components["schemas"], "handler.CategoryRequest")
	assert.Contains(t, components["securitySchemes"], "BearerAuth")
}

func TestSwaggerDocCoversEveryRoute(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Paths map[string]map[string]interface{} `json:"paths"`
	}
	decodeJSON(t, rec, &doc)

	routes := map[string][]string{
		"/auth/register":        {"post"},
		"/auth/login":           {"post"},
		"/auth/logout":          {"post"},
		"/auth/profile":         {"get", "put", "patch", "delete"},
		"/categories":           {"get", "post"},
		"/categories/{id}":      {"get", "put", "patch", "delete"},
		"/transactions":         {"get", "post"},
		"/transactions/summary": {"get"},
		"/transactions/{id}":    {"get", "put", "patch", "delete"},
		"/budgets":              {"get", "post"},
		"/budgets/{id}":         {"get", "put", "patch", "delete"},
	}
	for path, methods := range routes {
		require.Contains(t, doc.Paths, path)
		for _, method := range methods {
			assert.Contains(t, doc.Paths[path], method, "%s %s", method, path)
		}
	}
}
