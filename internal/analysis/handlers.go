package analysis

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"backend-stridelog/internal/ingest"
	"backend-stridelog/internal/mapview"
)

// Multipart field names of the two uploads.
const (
	FieldAcceleration = "acceleration"
	FieldLocation     = "location"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		accFile, err := openUpload(c, FieldAcceleration)
		if err != nil {
			return err
		}
		defer accFile.Close()
		locFile, err := openUpload(c, FieldLocation)
		if err != nil {
			return err
		}
		defer locFile.Close()

		rep, err := svc.Analyze(c.UserContext(), accFile, locFile)
		if err != nil {
			kind := ingest.KindOf(err)
			status := fiber.StatusUnprocessableEntity
			if kind == ingest.KindUnexpected {
				status = fiber.StatusInternalServerError
			}
			return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": kind})
		}
		return c.JSON(rep)
	})

	r.Get("/:id/map.geojson", func(c *fiber.Ctx) error {
		body, err := svc.MapGeoJSON(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(body)
	})

	r.Get("/:id/map", func(c *fiber.Ctx) error {
		m, err := svc.Map(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		c.Type("html", "utf-8")
		return mapview.RenderHTML(c, "Walk "+c.Params("id"), m)
	})
}

func openUpload(c *fiber.Ctx, field string) (multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, field+" file required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot read "+field+" file")
	}
	return f, nil
}

func mapError(err error) error {
	if errors.Is(err, ErrReportNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "map not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
