package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docport/internal/http/middleware"
	"docport/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: they parse input, call the service and map errors.
// db may be nil when the in-memory store is used.
func RegisterRoutes(app *fiber.App, db Pinger, gatherer prometheus.Gatherer, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	app.Get("/organizations", ListOrganizations(docSvc))

	// Everything below acts on behalf of an organization.
	actor := middleware.Actor()
	app.Post("/presign-upload", actor, PresignUpload(docSvc))
	app.Get("/presign-download", actor, PresignDownload(docSvc))

	docs := app.Group("/documents", actor)
	docs.Post("/", UploadDocument(docSvc))
	docs.Post("/register", RegisterDocument(docSvc))
	docs.Get("/inbox", Inbox(docSvc))
	docs.Get("/sent", Sent(docSvc))
	docs.Get("/unread-count", UnreadCount(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Get("/:id/events", ListEvents(docSvc))
	docs.Post("/:id/download", DownloadDocument(docSvc))
	docs.Post("/:id/cancel", CancelDocument(docSvc))
	docs.Post("/:id/archive", ArchiveDocument(docSvc))
}
