package handler

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

// DocsHandler serves the OpenAPI document and a Swagger UI page over it.
type DocsHandler struct {
	OpenAPIPath string
}

func (h DocsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/openapi.yaml", h.serveSpec)
	r.Get("/docs", h.serveUI)
}

func (h DocsHandler) serveSpec(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.OpenAPIPath); err != nil {
		writeError(w, http.StatusNotFound, "openapi document not available")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	http.ServeFile(w, r, h.OpenAPIPath)
}

const docsPage = `<!doctype html>
<html>
  <head>
    <title>Vision on Edge Parts API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.onload = () => SwaggerUIBundle({ url: '/openapi.yaml', dom_id: '#swagger-ui' });
    </script>
  </body>
</html>`

func (h DocsHandler) serveUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsPage))
}
