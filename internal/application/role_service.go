package application

import (
	"context"

	"github.com/noxven/gestion-ie/internal/domain/entity"
	"github.com/noxven/gestion-ie/internal/domain/repository"
)

type RoleService struct {
	Roles repository.RoleRepository
}

func (s *RoleService) List(ctx context.Context) ([]entity.Role, error) {
	return s.Roles.List(ctx)
}
