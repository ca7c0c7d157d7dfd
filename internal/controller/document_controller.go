package controller

import (
	"mathdoc-be/internal/dto"
	"mathdoc-be/internal/pkg/serverutils"
	"mathdoc-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Move(ctx *fiber.Ctx) error
	SaveRevision(ctx *fiber.Ctx) error
	RenderHTML(ctx *fiber.Ctx) error
	RenderMarkdown(ctx *fiber.Ctx) error
	Preview(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Post("preview", c.Preview)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Put(":id/move", c.Move)
	h.Delete(":id", c.Delete)
	h.Post(":id/revisions", c.SaveRevision)
	h.Get(":id/html", c.RenderHTML)
	h.Get(":id/markdown", c.RenderMarkdown)
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	req := dto.ListDocumentsRequest{
		PublishedOnly: ctx.QueryBool("published"),
		Limit:         ctx.QueryInt("limit"),
		Offset:        ctx.QueryInt("offset"),
	}
	if raw := ctx.Query("directory_id"); raw != "" {
		directoryId, err := uuid.Parse(raw)
		if err != nil {
			return serverutils.BadRequest("invalid directory_id %q", raw)
		}
		req.DirectoryId = &directoryId
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list document", res))
}

func (c *documentController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateDocumentRequest
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

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create document", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateDocumentRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success update document", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}

func (c *documentController) Move(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.MoveDocumentRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.service.Move(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success move document", res))
}

func (c *documentController) SaveRevision(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	var req dto.SaveRevisionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.DocumentId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SaveRevision(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success save revision", res))
}

// RenderHTML returns the rendered body in the JSON envelope, or as a bare
// text/html fragment with ?raw=true.
func (c *documentController) RenderHTML(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Render(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	if ctx.QueryBool("raw") {
		ctx.Type("html", "utf-8")
		return ctx.SendString(res.Html)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success render document", res))
}

func (c *documentController) RenderMarkdown(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.RenderMarkdown(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	if ctx.QueryBool("raw") {
		ctx.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
		return ctx.SendString(res.Markdown)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success render document", res))
}

func (c *documentController) Preview(ctx *fiber.Ctx) error {
	var req dto.PreviewRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Preview(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success preview document", res))
}
