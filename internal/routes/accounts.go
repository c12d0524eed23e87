package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kivu-bank/kivu_bank/internal/account"
)

// RegisterAccountRoutes wires account-related endpoints.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler) {
	r.Post("/accounts", h.Create)
	r.Get("/accounts/:accountId", h.Get)
	r.Post("/accounts/:accountId/balance", h.UpdateBalance)
}
