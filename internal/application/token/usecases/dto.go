package usecases

import (
	"time"

	"github.com/filegate-io/filegate/internal/domain/token"
)

type AccessTokenDTO struct {
	ID         uint       `json:"id"`
	Value      string     `json:"value"`
	ResourceID uint       `json:"resource_id"`
	OwnerID    uint       `json:"owner_id,omitempty"`
	OwnerEmail *string    `json:"owner_email,omitempty"`
	OwnerIP    *string    `json:"owner_ip,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	UseCount   uint       `json:"use_count"`
	MaxUses    uint       `json:"max_uses"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	Status     string     `json:"status"`
}

func tokenToDTO(t *token.AccessToken) *AccessTokenDTO {
	return &AccessTokenDTO{
		ID:         t.ID(),
		Value:      t.Value(),
		ResourceID: t.ResourceID(),
		OwnerID:    t.OwnerID(),
		OwnerEmail: t.OwnerEmail(),
		OwnerIP:    t.OwnerIP(),
		CreatedAt:  t.CreatedAt(),
		ExpiresAt:  t.ExpiresAt(),
		UseCount:   t.UseCount(),
		MaxUses:    t.MaxUses(),
		LastUsedAt: t.LastUsedAt(),
		Status:     t.Status().String(),
	}
}
