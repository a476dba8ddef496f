package services

import (
	"context"

	"github.com/dmitrijs2005/brainswap/internal/client/client"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

type SkillService interface {
	Catalog(ctx context.Context) ([]models.Skill, error)
}

type skillService struct {
	api client.Client
}

func NewSkillService(api client.Client) SkillService {
	return &skillService{api: api}
}

// Catalog fetches the public skill list. Any failure is reported with the
// connectivity banner, as the catalog is the first request of registration.
func (s *skillService) Catalog(ctx context.Context) ([]models.Skill, error) {
	list, err := s.api.ListSkills(ctx)
	if err != nil {
		return nil, &Error{Message: client.UnavailableMessage, Err: err}
	}
	return list, nil
}
