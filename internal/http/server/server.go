package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/redis/go-redis/v9"

	"foodgram-pages/internal/config"
	"foodgram-pages/internal/http/handlers"
	"foodgram-pages/internal/http/middleware"
	"foodgram-pages/internal/infra/logging"
	"foodgram-pages/internal/pages"
	"foodgram-pages/internal/pdf"
	"foodgram-pages/internal/render"
	"foodgram-pages/internal/tokens"
)

// Deps are the collaborators created by main.
type Deps struct {
	Config config.Config
	// Redis caches exported PDFs; nil disables the cache.
	Redis *redis.Client
	// Tokens enables API-key auth when non-nil.
	Tokens *tokens.Cache
	// Store backs the rate limiters.
	Store fiber.Storage
}

// Site is the fully rendered page catalog.
type Site struct {
	Catalog  *pages.Catalog
	Renderer *render.Renderer
	Rendered map[string][]byte
}

// BuildSite renders every page for cfg once.
func BuildSite(cfg config.Config) (*Site, error) {
	catalog := pages.NewCatalog(pages.Links{
		RepositoryURL: cfg.Links.RepositoryURL,
		AuthorName:    cfg.Links.AuthorName,
		AuthorURL:     cfg.Links.AuthorURL,
		SourceSiteURL: cfg.Links.SourceSiteURL,
	})
	r, err := render.New(render.Site{
		Name:    cfg.Site.Name,
		Lang:    cfg.Site.Lang,
		BaseURL: cfg.Site.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	rendered, err := r.Prerender(catalog.All())
	if err != nil {
		return nil, err
	}
	return &Site{Catalog: catalog, Renderer: r, Rendered: rendered}, nil
}

// New creates and configures the Fiber app.
func New(deps Deps) (*fiber.App, error) {
	site, err := BuildSite(deps.Config)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		Prefork:               deps.Config.Server.Prefork,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(site.Renderer),
	})

	middleware.Register(app, deps.Config, middleware.Deps{
		Tokens: deps.Tokens,
		Store:  deps.Store,
	})
	registerRoutes(app, deps, site)

	// Anything unmatched is a 404 in the format of its area.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app, nil
}

func registerRoutes(app *fiber.App, deps Deps, site *Site) {
	pagesHandler := handlers.NewPages(site.Catalog, site.Rendered)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/about", fiber.StatusFound)
	})
	for _, p := range site.Catalog.All() {
		app.Get(p.Route, pagesHandler.Page(p.Slug))
	}
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(render.Static()),
		MaxAge: 3600,
	}))

	v1 := app.Group(middleware.APIPrefix)
	v1.Get("/pages", pagesHandler.List)

	pdfHandler := handlers.NewPDF(pdf.NewService(deps.Config, deps.Redis), pagesHandler)
	v1.Get("/pages/:slug/pdf", pdfHandler.Export)

	v1.Get("/monitor", monitor.New(monitor.Config{Title: deps.Config.Site.Name + " pages"}))
}

// errorHandler answers API routes with a JSON envelope and everything else
// with an HTML error page.
func errorHandler(r *render.Renderer) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal Server Error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			msg = e.Message
		}

		logging.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

		if middleware.IsAPIPath(c.Path()) {
			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		}

		// Browser pages show localized status text; Fiber's messages are English.
		body, rerr := r.RenderError(code, "")
		if rerr != nil {
			logging.Error("Error page render failed", "error", rerr)
			return c.Status(code).SendString(render.StatusText(code))
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Status(code).Send(body)
	}
}
