package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"foodgram-pages/internal/domain"
	"foodgram-pages/internal/infra/logging"
	"foodgram-pages/internal/pdf"
	"foodgram-pages/internal/render"
)

// PDF exports pages through the pdf service.
type PDF struct {
	svc   *pdf.Service
	pages *Pages
}

func NewPDF(svc *pdf.Service, pages *Pages) *PDF {
	return &PDF{svc: svc, pages: pages}
}

// Export handles GET /v1/pages/:slug/pdf.
func (h *PDF) Export(c *fiber.Ctx) error {
	slug := c.Params("slug")
	body, ok := h.pages.HTML(slug)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	}

	buf, err := h.svc.Export(c.UserContext(), slug, render.InlineStylesheet(body))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPDFDisabled):
			return fiber.NewError(fiber.StatusNotFound, "PDF export is disabled")
		case errors.Is(err, domain.ErrPDFTooLarge):
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "PDF exceeds allowed size")
		case errors.Is(err, context.DeadlineExceeded):
			logging.Error("PDF generation timeout", "slug", slug, "error", err)
			return fiber.NewError(fiber.StatusRequestTimeout, "PDF rendering took too long")
		default:
			logging.Error("PDF generation failed", "slug", slug, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "PDF generation failed")
		}
	}

	logging.Info("PDF served", "slug", slug, "request_id", c.GetRespHeader(fiber.HeaderXRequestID))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+slug+".pdf")
	return c.Send(buf)
}
