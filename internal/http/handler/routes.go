package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"masterspeak/internal/http/middleware"
	"masterspeak/internal/service"
)

// Services groups the application services the HTTP layer depends on.
type Services struct {
	Analyses service.AnalysisService
	Shares   service.ShareService
	Exports  service.ExportService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; all business rules live in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, jwtSecret string, svcs Services) {
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	v1 := app.Group("/api/v1")

	// Anonymous: the share token is the only credential.
	v1.Get("/share/:token", GetSharedAnalysis(svcs.Shares))

	authed := v1.Group("", middleware.Auth(jwtSecret))

	// /analyses/search must be registered before /analyses/:id so the
	// literal segment wins over the parameter.
	authed.Get("/analyses/search", SearchAnalyses(svcs.Analyses))
	authed.Get("/analyses", ListAnalyses(svcs.Analyses))
	authed.Post("/analyses", CreateAnalysis(svcs.Analyses))
	authed.Post("/analyses/upload", UploadAnalysisAudio(svcs.Analyses))
	authed.Get("/analyses/:id", GetAnalysis(svcs.Analyses))
	authed.Get("/analyses/:id/export", ExportAnalysis(svcs.Exports))
	authed.Post("/share/:id", CreateShareLink(svcs.Shares))
}
