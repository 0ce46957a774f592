package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

// AssetService implements asset management. Every asset belongs to an
// existing client; the client reference is checked before insert so the
// caller gets a clean not-found instead of a bare constraint error.
type AssetService struct {
	repo    ports.AssetRepository
	clients ports.ClientRepository
	logger  zerolog.Logger
}

func NewAssetService(repo ports.AssetRepository, clients ports.ClientRepository, logger zerolog.Logger) *AssetService {
	return &AssetService{repo: repo, clients: clients, logger: logger}
}

func (s *AssetService) Create(ctx context.Context, input ports.CreateAssetInput) (*domain.Asset, error) {
	if _, err := s.clients.FindByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	status := domain.AssetStatus(input.Status)
	if input.Status == "" {
		status = domain.AssetOperating
	}
	if !domain.ValidAssetStatus(status) {
		return nil, fmt.Errorf("%w: unknown asset status %q", domain.ErrInvalidStatus, input.Status)
	}

	asset := &domain.Asset{
		ID:        uuid.NewString(),
		ClientID:  input.ClientID,
		Name:      input.Name,
		AssetType: input.AssetType,
		Location:  input.Location,
		Status:    status,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		s.logger.Error().Err(err).Str("client_id", input.ClientID).Msg("failed to create asset")
		return nil, err
	}

	s.logger.Info().Str("asset_id", asset.ID).Str("client_id", asset.ClientID).Msg("asset created")
	return asset, nil
}

func (s *AssetService) Get(ctx context.Context, id string) (*domain.Asset, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AssetService) ListByClient(ctx context.Context, clientID string, includeInactive bool) ([]*domain.Asset, error) {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListByClient(ctx, clientID, includeInactive)
}

func (s *AssetService) Update(ctx context.Context, id string, input ports.UpdateAssetInput) (*domain.Asset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		asset.Name = *input.Name
	}
	if input.AssetType != nil {
		asset.AssetType = *input.AssetType
	}
	if input.Location != nil {
		asset.Location = *input.Location
	}
	if input.Status != nil {
		status := domain.AssetStatus(*input.Status)
		if !domain.ValidAssetStatus(status) {
			return nil, fmt.Errorf("%w: unknown asset status %q", domain.ErrInvalidStatus, *input.Status)
		}
		asset.Status = status
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *AssetService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("asset_id", id).Msg("asset deactivated")
	return nil
}
