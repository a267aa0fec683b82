package api

import (
	"encoding/json"
	"net/http"
)

const docsTitle = "Carmarket Payments API"

// RegisterDocsRoutes serves the payments API reference:
//
//	GET /                   redirect to /docs
//	GET /docs               Swagger UI, bearer token kept across reloads
//	GET /docs/openapi       document as JSON, for the UI
//	GET /docs/openapi.yaml  document as authored, for client generators
func RegisterDocsRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs", http.StatusMovedPermanently)
	})
	mux.HandleFunc("GET /docs", serveSwaggerUI)
	mux.HandleFunc("GET /docs/openapi", serveOpenAPIJSON)
	mux.HandleFunc("GET /docs/openapi.yaml", serveOpenAPIYAML)
}

func serveOpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	doc, err := GetSwagger()
	if err != nil {
		http.Error(w, "payments API description unavailable", http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(doc)
	if err != nil {
		http.Error(w, "payments API description unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body) //nolint:errcheck // client went away
}

func serveOpenAPIYAML(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `inline; filename="carmarket-payments.yaml"`)
	_, _ = w.Write(openapiSpec) //nolint:errcheck // client went away
}

func serveSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(swaggerUIPage)) //nolint:errcheck // client went away
}

// persistAuthorization keeps the buyer JWT entered under "Authorize" so
// POST /payments and GET /payments/mine can be tried after a reload.
const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>` + docsTitle + `</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  <style>body { margin: 0; }</style>
</head>
<body>
  <div id="payments-docs"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      SwaggerUIBundle({
        url: '/docs/openapi',
        dom_id: '#payments-docs',
        persistAuthorization: true,
        displayOperationId: true,
        tryItOutEnabled: true
      });
    };
  </script>
</body>
</html>`
