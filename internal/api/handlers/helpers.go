package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func ParamID(c *fiber.Ctx, name string) int64 {
	id, _ := strconv.ParseInt(c.Params(name), 10, 64)
	return id
}
