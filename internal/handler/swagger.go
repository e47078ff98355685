package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/budgetly/budgetly-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

const definitionsPrefix = "#/definitions/"
const schemasPrefix = "#/components/schemas/"

// OpenAPI3Spec represents an OpenAPI 3.0 document
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// convertSwagger2 rewrites $refs to components/schemas and moves query, path
// and header parameter types under "schema". Body parameters are lifted into
// requestBody by convertOperation.
func convertSwagger2(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		if _, hasIn := v["in"]; hasIn {
			if _, hasName := v["name"]; hasName && v["in"] != "body" {
				return convertParameter(v)
			}
		}

		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, definitionsPrefix, schemasPrefix, 1)
				continue
			}
			result[key] = convertSwagger2(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = convertSwagger2(item)
		}
		return result
	default:
		return data
	}
}

func convertParameter(param map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			schema[field] = convertSwagger2(val)
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}
	return result
}

// convertOperation replaces a body parameter with an OpenAPI 3 requestBody and
// wraps response schemas in a JSON content entry
func convertOperation(op map[string]interface{}) map[string]interface{} {
	if params, ok := op["parameters"].([]interface{}); ok {
		kept := make([]interface{}, 0, len(params))
		for _, p := range params {
			param, _ := p.(map[string]interface{})
			if param == nil || param["in"] != "body" {
				kept = append(kept, p)
				continue
			}
			op["requestBody"] = map[string]interface{}{
				"description": param["description"],
				"required":    param["required"],
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{"schema": param["schema"]},
				},
			}
		}
		if len(kept) > 0 {
			op["parameters"] = kept
		} else {
			delete(op, "parameters")
		}
	}

	if responses, ok := op["responses"].(map[string]interface{}); ok {
		for code, r := range responses {
			resp, _ := r.(map[string]interface{})
			if resp == nil {
				continue
			}
			if schema, ok := resp["schema"]; ok {
				delete(resp, "schema")
				resp["content"] = map[string]interface{}{
					"application/json": map[string]interface{}{"schema": schema},
				}
			}
			responses[code] = resp
		}
	}

	delete(op, "consumes")
	delete(op, "produces")
	return op
}

// ServeOpenAPI3Spec serves the swagger document converted to OpenAPI 3.0.
// The requesting host is listed first so "try it out" works behind any proxy.
func ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read API document")
	}

	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return NewInternalError(c, "Failed to parse API document")
	}

	info, _ := swagger2["info"].(map[string]interface{})
	basePath, _ := swagger2["basePath"].(string)

	paths := make(map[string]interface{})
	if rawPaths, ok := swagger2["paths"].(map[string]interface{}); ok {
		for path, item := range convertSwagger2(rawPaths).(map[string]interface{}) {
			methods, _ := item.(map[string]interface{})
			for method, op := range methods {
				if opMap, ok := op.(map[string]interface{}); ok {
					methods[method] = convertOperation(opMap)
				}
			}
			paths[path] = methods
		}
	}

	components := make(map[string]interface{})
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = convertSwagger2(definitions)
	}

	spec := OpenAPI3Spec{
		OpenAPI: "3.0.3",
		Info:    info,
		Servers: []Server{
			{
				URL:         c.Scheme() + "://" + c.Request().Host + basePath,
				Description: "Current host",
			},
			{
				URL:         "http://localhost:8080" + basePath,
				Description: "Local Development",
			},
		},
		Paths:      paths,
		Components: components,
	}

	return c.JSON(http.StatusOK, spec)
}
