package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

// ClientService implements client management.
type ClientService struct {
	repo   ports.ClientRepository
	logger zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger}
}

func (s *ClientService) Create(ctx context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	client := &domain.Client{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Document:  input.Document,
		Address:   input.Address,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, client); err != nil {
		s.logger.Error().Err(err).Msg("failed to create client")
		return nil, err
	}

	s.logger.Info().Str("client_id", client.ID).Msg("client created")
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ClientService) List(ctx context.Context, includeInactive bool) ([]*domain.Client, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *ClientService) Update(ctx context.Context, id string, input ports.UpdateClientInput) (*domain.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Document != nil {
		client.Document = *input.Document
	}
	if input.Address != nil {
		client.Address = *input.Address
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("client_id", id).Msg("client deactivated")
	return nil
}
