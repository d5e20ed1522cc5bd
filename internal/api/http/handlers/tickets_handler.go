package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-agent/internal/api/dto"
	"github.com/spec-kit/support-agent/internal/service"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// TicketsHandler manages ticket intake and retrieval endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /tickets. The ticket is accepted and resolved in the
// background; the response only acknowledges receipt.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		TicketID:     req.TicketID,
		CustomerID:   req.CustomerID,
		Description:  req.Description,
		ReceivedDate: req.ReceivedDate,
	}
	ticket, err := h.service.CreateTicket(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": dto.TicketAccepted{
		TicketID: ticket.ID,
		Status:   ticket.Status,
	}})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}
