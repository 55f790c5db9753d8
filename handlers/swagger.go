package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the API description.
// - GET /swagger/index.html  -> Swagger UI loading the document below
// - GET /swagger/doc.json    -> OpenAPI 3 document
func RegisterSwagger(r gin.IRoutes) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>resumate API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "resumate", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer" } },
    "schemas": {
      "Message": { "type": "object", "properties": { "message": { "type": "string" } } },
      "Error": { "type": "object", "properties": { "error": { "type": "string" } } },
      "ResumeData": { "type": "object", "description": "personalDetails plus one {isVisible, entries} object per section" },
      "Resume": { "type": "object", "properties": {
        "id": { "type": "string" }, "ownerId": { "type": "string" }, "title": { "type": "string" },
        "resumeData": { "$ref": "#/components/schemas/ResumeData" }, "version": { "type": "integer" },
        "lastUpdated": { "type": "string", "format": "date-time" } } }
    }
  },
  "security": [ { "bearer": [] } ],
  "paths": {
    "/api/resumes": {
      "get": { "summary": "List the caller's resumes", "responses": { "200": { "description": "resume metadata, newest first" }, "401": { "description": "unauthorized" } } },
      "post": {
        "summary": "Create a resume, or update the one with the same title",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "title": { "type": "string" }, "resumeData": { "$ref": "#/components/schemas/ResumeData" } } } } } },
        "responses": { "201": { "description": "created" }, "200": { "description": "updated" }, "400": { "description": "resumeData missing" } }
      }
    },
    "/api/resumes/{id}": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
      "get": { "summary": "Get one resume", "responses": { "200": { "description": "resume; ETag carries the version" }, "404": { "description": "not found" } } },
      "put": {
        "summary": "Replace resume content",
        "parameters": [ { "name": "If-Match", "in": "header", "required": false, "schema": { "type": "string" } } ],
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "resumeData": { "$ref": "#/components/schemas/ResumeData" } } } } } },
        "responses": { "200": { "description": "updated" }, "400": { "description": "missing id or content" }, "404": { "description": "not found" }, "409": { "description": "stale If-Match" } }
      },
      "delete": { "summary": "Delete a resume", "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/extract-keywords": {
      "post": {
        "summary": "Extract keywords from a job description",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "jd": { "type": "string" } } } } } },
        "responses": { "200": { "description": "{keywords: [{text, category, confidence}]}" }, "400": { "description": "jd missing" }, "500": { "description": "generative API failure" } }
      }
    },
    "/api/generate-roadmap": {
      "post": {
        "summary": "Generate a learning roadmap",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "jobDescription": { "type": "string" }, "resume": { "type": "string" }, "duration": { "type": "string" } } } } } },
        "responses": { "200": { "description": "{roadmap: [...]}" }, "400": { "description": "field missing" }, "500": { "description": "generative API failure" } }
      }
    },
    "/generate-pdf": {
      "post": {
        "summary": "Render HTML to an A4 PDF",
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "html": { "type": "string" } } } } } },
        "responses": { "200": { "description": "application/pdf attachment" }, "400": { "description": "html missing" }, "500": { "description": "render failure" } }
      }
    },
    "/api/me": { "get": { "summary": "Caller profile", "responses": { "200": { "description": "user" } } } },
    "/health": { "get": { "summary": "Liveness check", "security": [], "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "security": [], "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
