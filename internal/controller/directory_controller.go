package controller

import (
	"mathdoc-be/internal/dto"
	"mathdoc-be/internal/pkg/serverutils"
	"mathdoc-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDirectoryController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Move(ctx *fiber.Ctx) error
}

type directoryController struct {
	service service.IDirectoryService
}

func NewDirectoryController(service service.IDirectoryService) IDirectoryController {
	return &directoryController{service: service}
}

func (c *directoryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/directory/v1")
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Put(":id/move", c.Move)
	h.Delete(":id", c.Delete)
}

func (c *directoryController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all directory", res))
}

func (c *directoryController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateDirectoryRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create directory", res))
}

func (c *directoryController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show directory", res))
}

func (c *directoryController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateDirectoryRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update directory", res))
}

func (c *directoryController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete directory", nil))
}

func (c *directoryController) Move(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.MoveDirectoryRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Move(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success move directory", res))
}
