package controller

import (
	"mathdoc-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func paramID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.BadRequest("invalid id %q", ctx.Params("id"))
	}
	return id, nil
}

func parseBody(ctx *fiber.Ctx, out any) error {
	if err := ctx.BodyParser(out); err != nil {
		return serverutils.BadRequest("invalid request body: %v", err)
	}
	return nil
}
