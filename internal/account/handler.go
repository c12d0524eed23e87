package account

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Owner          string          `json:"owner"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type accountResponse struct {
	AccountID string          `json:"account_id"`
	Owner     string          `json:"owner"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
}

type updateRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func toResponse(a *Account) accountResponse {
	return accountResponse{
		AccountID: a.ID,
		Owner:     a.Owner,
		Currency:  a.Currency,
		Balance:   a.Balance,
	}
}

// Create opens a new account.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	id, err := h.service.Create(c.UserContext(), CreateInput{
		Owner:          req.Owner,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"account_id": id})
}

// Get returns the current account state.
func (h *Handler) Get(c *fiber.Ctx) error {
	id := c.Params("accountId")

	state, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if state == nil {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}

	return c.Status(http.StatusOK).JSON(toResponse(state))
}

// UpdateBalance applies a signed amount to the account balance. The core
// does not distinguish "unknown account" from "rejected", so both map to
// 422 here; a durability failure is a 500.
func (h *Handler) UpdateBalance(c *fiber.Ctx) error {
	id := c.Params("accountId")

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	state, err := h.service.UpdateBalance(c.UserContext(), id, req.Currency, req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if state == nil {
		return fiber.NewError(http.StatusUnprocessableEntity, "update rejected")
	}

	return c.Status(http.StatusOK).JSON(toResponse(state))
}
