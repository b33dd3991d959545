package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/infrastructure/persistence/models"
)

// ResourceMapper handles the conversion between domain entities and persistence models
type ResourceMapper interface {
	ToEntity(model *models.ResourceModel) (*resource.Resource, error)
	ToModel(entity *resource.Resource) (*models.ResourceModel, error)
}

type resourceMapper struct{}

// NewResourceMapper creates a new resource mapper
func NewResourceMapper() ResourceMapper {
	return &resourceMapper{}
}

func (m *resourceMapper) ToEntity(model *models.ResourceModel) (*resource.Resource, error) {
	if model == nil {
		return nil, nil
	}

	var userAllow, userDeny []uint
	var roleAllow, roleDeny []string
	if err := unmarshalList(model.UserAllowList, &userAllow); err != nil {
		return nil, fmt.Errorf("failed to parse user allow list: %w", err)
	}
	if err := unmarshalList(model.UserDenyList, &userDeny); err != nil {
		return nil, fmt.Errorf("failed to parse user deny list: %w", err)
	}
	if err := unmarshalList(model.RoleAllowList, &roleAllow); err != nil {
		return nil, fmt.Errorf("failed to parse role allow list: %w", err)
	}
	if err := unmarshalList(model.RoleDenyList, &roleDeny); err != nil {
		return nil, fmt.Errorf("failed to parse role deny list: %w", err)
	}

	entity, err := resource.ReconstructResource(
		model.ID,
		model.Path,
		model.IsProtected,
		model.RedirectURL,
		resource.BotPolicy(model.BotPolicy),
		userAllow,
		userDeny,
		roleAllow,
		roleDeny,
		model.TokenExpirySeconds,
		model.TokenMaxUses,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct resource entity: %w", err)
	}

	return entity, nil
}

func (m *resourceMapper) ToModel(entity *resource.Resource) (*models.ResourceModel, error) {
	if entity == nil {
		return nil, nil
	}

	userAllow, err := marshalList(entity.UserAllowList())
	if err != nil {
		return nil, err
	}
	userDeny, err := marshalList(entity.UserDenyList())
	if err != nil {
		return nil, err
	}
	roleAllow, err := marshalList(entity.RoleAllowList())
	if err != nil {
		return nil, err
	}
	roleDeny, err := marshalList(entity.RoleDenyList())
	if err != nil {
		return nil, err
	}

	return &models.ResourceModel{
		ID:                 entity.ID(),
		Path:               entity.Path(),
		IsProtected:        entity.IsProtected(),
		RedirectURL:        entity.RedirectURL(),
		BotPolicy:          string(entity.BotPolicy()),
		UserAllowList:      userAllow,
		UserDenyList:       userDeny,
		RoleAllowList:      roleAllow,
		RoleDenyList:       roleDeny,
		TokenExpirySeconds: entity.TokenExpirySeconds(),
		TokenMaxUses:       entity.TokenMaxUses(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}, nil
}

func unmarshalList(raw datatypes.JSON, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func marshalList(v any) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal list: %w", err)
	}
	return datatypes.JSON(data), nil
}
