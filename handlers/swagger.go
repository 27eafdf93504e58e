package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers the API documentation endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(SwaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>posts-service - Swagger</title>
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

// SwaggerJSON is the OpenAPI document for the post API. 404 and 500
// responses carry no body.
const SwaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "posts-service", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Post": {
        "type": "object",
        "properties": {
          "id": { "type": "string" },
          "title": { "type": "string" },
          "content": { "type": "string" },
          "date": { "type": "string", "format": "date-time" },
          "author": { "type": "string" },
          "likes": { "type": "integer" }
        }
      },
      "PostInput": {
        "type": "object",
        "required": ["title", "content", "author"],
        "properties": {
          "title": { "type": "string" },
          "content": { "type": "string" },
          "author": { "type": "string" },
          "date": { "type": "string", "format": "date-time" }
        }
      },
      "PostUpdate": {
        "type": "object",
        "properties": {
          "title": { "type": "string" },
          "content": { "type": "string" },
          "author": { "type": "string" },
          "date": { "type": "string", "format": "date-time" }
        }
      },
      "Message": {
        "type": "object",
        "properties": { "message": { "type": "string" } }
      },
      "LikeResult": {
        "type": "object",
        "properties": { "message": { "type": "string" }, "likes": { "type": "integer" } }
      }
    }
  },
  "paths": {
    "/posts": {
      "get": {
        "summary": "List all posts",
        "responses": {
          "200": { "description": "posts (possibly empty)", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/Post" } } } } },
          "500": { "description": "store error" }
        }
      },
      "post": {
        "summary": "Create a post",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/PostInput" } } } },
        "responses": {
          "200": { "description": "created post", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Post" } } } },
          "500": { "description": "store error" }
        }
      }
    },
    "/posts/{id}": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
      "get": {
        "summary": "Find a post",
        "responses": {
          "200": { "description": "post", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Post" } } } },
          "404": { "description": "not found" },
          "500": { "description": "store error" }
        }
      },
      "put": {
        "summary": "Update a post",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/PostUpdate" } } } },
        "responses": {
          "200": { "description": "updated post", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Post" } } } },
          "404": { "description": "not found" },
          "500": { "description": "store error" }
        }
      },
      "delete": {
        "summary": "Delete a post",
        "responses": {
          "200": { "description": "deleted", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Message" } } } },
          "404": { "description": "not found" },
          "500": { "description": "store error" }
        }
      }
    },
    "/posts/{id}/like": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } } ],
      "post": {
        "summary": "Like a post",
        "responses": {
          "200": { "description": "liked", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/LikeResult" } } } },
          "404": { "description": "not found" },
          "500": { "description": "store error" }
        }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
