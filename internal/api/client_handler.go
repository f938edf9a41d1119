package api

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler holds the roster service dependency.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- Request/Response Structs ---

type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
	Goals string `json:"goals"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Goals     string    `json:"goals,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// --- Handler Methods ---

// CreateClient adds a client to the roster.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), service.ClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
		Goals: req.Goals,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}
	c.JSON(http.StatusCreated, MapClientToResponse(client))
}

// GetClient returns a single roster record.
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		return
	}
	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch client")
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// ListClients returns the active roster.
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list clients")
		return
	}
	resp := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, MapClientToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateClient replaces a client's editable fields.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		return
	}
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, service.ClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
		Goals: req.Goals,
	})
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// DeleteClient soft-deletes a roster record.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		return
	}
	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}

// MapClientToResponse converts a domain Client to its DTO.
func MapClientToResponse(client *domain.Client) ClientResponse {
	if client == nil {
		return ClientResponse{}
	}
	return ClientResponse{
		ID:        client.ID.Hex(),
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Notes:     client.Notes,
		Goals:     client.Goals,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

// parseObjectIDParam extracts and validates an ObjectID path parameter,
// aborting the request with a 400 when it is malformed.
func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, err
	}
	return id, nil
}
