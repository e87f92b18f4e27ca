package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>gil-bot API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document for the syllabus endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "gil-bot syllabus API", "version": "v0.1.0" },
  "paths": {
    "/auth/login": {
      "post": {
        "summary": "Admin login",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "tokens returned" }, "401": { "description": "bad credential" } }
      }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/syllabus": {
      "get": { "summary": "List syllabus summaries", "parameters": [ {"name":"search","in":"query","schema":{"type":"string"}}, {"name":"year","in":"query","schema":{"type":"string"}}, {"name":"semester","in":"query","schema":{"type":"string"}} ], "responses": { "200": { "description": "summaries" } } },
      "post": { "summary": "Create a syllabus", "responses": { "201": { "description": "created" }, "409": { "description": "already exists" }, "422": { "description": "missing required fields" } } }
    },
    "/api/v1/syllabus/{id}": {
      "get": { "summary": "Get syllabus content (latest or ?version=N)", "responses": { "200": { "description": "content" }, "404": { "description": "not found" } } },
      "put": { "summary": "Save a new version", "responses": { "200": { "description": "version appended" }, "409": { "description": "concurrent save conflict" }, "422": { "description": "missing required fields" } } }
    },
    "/api/v1/syllabus/{id}/versions": {
      "get": { "summary": "List version metadata", "responses": { "200": { "description": "versions, ascending" }, "404": { "description": "not found" } } }
    },
    "/api/v1/syllabus/{id}/diff/{version1}/{version2}": {
      "get": { "summary": "Field-level diff between two versions", "responses": { "200": { "description": "change records" }, "404": { "description": "unknown version" } } }
    },
    "/api/v1/syllabus/{id}/source": {
      "post": { "summary": "Upload a source document for a syllabus", "responses": { "201": { "description": "stored" }, "503": { "description": "object storage unavailable" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
