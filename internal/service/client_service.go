package service

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound = errors.New("client not found")
)

// ClientInput carries the editable fields of a roster record.
type ClientInput struct {
	Name  string
	Email string
	Phone string
	Notes string
	Goals string
}

// --- Service Interface ---

// ClientService manages the coached-client roster.
type ClientService interface {
	CreateClient(ctx context.Context, in ClientInput) (*domain.Client, error)
	GetClient(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	UpdateClient(ctx context.Context, id primitive.ObjectID, in ClientInput) (*domain.Client, error)
	DeleteClient(ctx context.Context, id primitive.ObjectID) error
}

// --- Service Implementation ---

type clientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new instance of clientService.
func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

// CreateClient adds a new client to the roster.
func (s *clientService) CreateClient(ctx context.Context, in ClientInput) (*domain.Client, error) {
	if in.Name == "" {
		return nil, errors.New("client name is required")
	}
	client := &domain.Client{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
		Notes: in.Notes,
		Goals: in.Goals,
	}
	id, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		return nil, err
	}
	client.ID = id
	return client, nil
}

// GetClient retrieves a single client.
func (s *clientService) GetClient(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// ListClients retrieves the active roster.
func (s *clientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.List(ctx, false)
}

// UpdateClient replaces a client's editable fields.
func (s *clientService) UpdateClient(ctx context.Context, id primitive.ObjectID, in ClientInput) (*domain.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, errors.New("client name is required")
	}
	client.Name = in.Name
	client.Email = in.Email
	client.Phone = in.Phone
	client.Notes = in.Notes
	client.Goals = in.Goals

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// DeleteClient soft-deletes a roster record. Schedule history stays intact;
// ClearAllPeriods is the explicit way to remove it.
func (s *clientService) DeleteClient(ctx context.Context, id primitive.ObjectID) error {
	err := s.clientRepo.SoftDelete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrClientNotFound
	}
	return err
}
