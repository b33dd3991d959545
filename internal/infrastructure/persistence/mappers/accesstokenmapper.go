package mappers

import (
	"fmt"

	"github.com/filegate-io/filegate/internal/domain/token"
	"github.com/filegate-io/filegate/internal/infrastructure/persistence/models"
)

// AccessTokenMapper handles the conversion between domain entities and persistence models
type AccessTokenMapper interface {
	ToEntity(model *models.AccessTokenModel) (*token.AccessToken, error)
	ToModel(entity *token.AccessToken) (*models.AccessTokenModel, error)
	ToEntities(models []*models.AccessTokenModel) ([]*token.AccessToken, error)
}

type accessTokenMapper struct{}

// NewAccessTokenMapper creates a new access token mapper
func NewAccessTokenMapper() AccessTokenMapper {
	return &accessTokenMapper{}
}

func (m *accessTokenMapper) ToEntity(model *models.AccessTokenModel) (*token.AccessToken, error) {
	if model == nil {
		return nil, nil
	}

	status, err := token.ParseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token status: %w", err)
	}

	entity, err := token.ReconstructAccessToken(
		model.ID,
		model.TokenValue,
		model.ResourceID,
		model.OwnerID,
		model.OwnerEmail,
		model.OwnerIP,
		model.CreatedAt,
		model.ExpiresAt,
		model.UseCount,
		model.MaxUses,
		model.LastUsedAt,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct access token entity: %w", err)
	}

	return entity, nil
}

func (m *accessTokenMapper) ToModel(entity *token.AccessToken) (*models.AccessTokenModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.AccessTokenModel{
		ID:         entity.ID(),
		TokenValue: entity.Value(),
		ResourceID: entity.ResourceID(),
		OwnerID:    entity.OwnerID(),
		OwnerEmail: entity.OwnerEmail(),
		OwnerIP:    entity.OwnerIP(),
		CreatedAt:  entity.CreatedAt(),
		ExpiresAt:  entity.ExpiresAt(),
		UseCount:   entity.UseCount(),
		MaxUses:    entity.MaxUses(),
		LastUsedAt: entity.LastUsedAt(),
		Status:     entity.Status().String(),
	}, nil
}

func (m *accessTokenMapper) ToEntities(tokenModels []*models.AccessTokenModel) ([]*token.AccessToken, error) {
	entities := make([]*token.AccessToken, 0, len(tokenModels))
	for _, model := range tokenModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
