package controller

import (
	"mathdoc-be/internal/pkg/serverutils"
	"mathdoc-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IExportController interface {
	RegisterRoutes(r fiber.Router)
	ExportAll(ctx *fiber.Ctx) error
	ExportOne(ctx *fiber.Ctx) error
}

type exportController struct {
	service service.IExportService
}

func NewExportController(service service.IExportService) IExportController {
	return &exportController{service: service}
}

func (c *exportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/export/v1")
	h.Post("", c.ExportAll)
	h.Post(":id", c.ExportOne)
}

func (c *exportController) ExportAll(ctx *fiber.Ctx) error {
	res, err := c.service.ExportAll(ctx.UserContext(), "")
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success export site", res))
}

func (c *exportController) ExportOne(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ExportOne(ctx.UserContext(), "", id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success export document", res))
}
