package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a Swagger UI page and the OpenAPI document of the gateway.
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
    <title>storefront gateway - Swagger</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "storefront-gateway", "version": "v0.1.0" },
  "paths": {
    "/auth/login": {
      "post": {
        "summary": "Log in against the shop API and start the session",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email","password"],"properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "session state" }, "400": { "description": "validation failed" }, "401": { "description": "bad credentials" } }
      }
    },
    "/auth/logout": { "post": { "summary": "Clear the session", "responses": { "200": { "description": "logged out" } } } },
    "/auth/session": { "get": { "summary": "Current session (no tokens)", "responses": { "200": { "description": "authenticated flag, user and token expiry" } } } },
    "/auth/profile": { "get": { "summary": "Remote profile of the logged in user", "responses": { "200": { "description": "profile" }, "401": { "description": "not authenticated" } } } },
    "/api/cart": {
      "get": { "summary": "Cart view", "responses": { "200": { "description": "items, count, units, totalPrice" } } },
      "delete": { "summary": "Empty the cart", "responses": { "200": { "description": "cart view" } } }
    },
    "/api/cart/items": {
      "post": {
        "summary": "Add a product",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"product":{"type":"object"},"productId":{"type":"integer"},"qty":{"type":"integer"}}}}}},
        "responses": { "200": { "description": "cart view" } }
      }
    },
    "/api/cart/items/{id}/increase": { "post": { "summary": "Add one unit", "responses": { "200": { "description": "cart view" } } } },
    "/api/cart/items/{id}/decrease": { "post": { "summary": "Remove one unit, never below 1", "responses": { "200": { "description": "cart view" } } } },
    "/api/cart/items/{id}": { "delete": { "summary": "Remove the line", "responses": { "200": { "description": "cart view" } } } },
    "/api/products": { "get": { "summary": "List products (title, price_min, price_max, categoryId, offset, limit)", "responses": { "200": { "description": "products" } } } },
    "/api/products/{id}": { "get": { "summary": "Get a product", "responses": { "200": { "description": "product" }, "404": { "description": "not found" } } } },
    "/api/categories": { "get": { "summary": "List categories", "responses": { "200": { "description": "categories" } } } },
    "/api/admin/{resource}": {
      "get": { "summary": "List products, categories, locations or users", "responses": { "200": { "description": "records" }, "401": { "description": "not authenticated" } } },
      "post": { "summary": "Create a record", "responses": { "201": { "description": "created" }, "400": { "description": "validation failed" } } }
    },
    "/api/admin/{resource}/{id}": {
      "put": { "summary": "Update a record", "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete a record", "responses": { "204": { "description": "deleted" } } }
    },
    "/api/admin/uploads": { "post": { "summary": "Upload an image (multipart field file)", "responses": { "201": { "description": "object key and presigned URL" }, "503": { "description": "object storage not configured" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
