package services

import (
	"context"
	"strings"
	"time"

	"eventbot/internal/domain"
)

type templateService struct {
	templateRepo   domain.TemplateRepository
	contextTimeout time.Duration
}

func NewTemplateService(templateRepo domain.TemplateRepository, timeout time.Duration) domain.TemplateService {
	return &templateService{
		templateRepo:   templateRepo,
		contextTimeout: timeout,
	}
}

func (s *templateService) Create(ctx context.Context, guildID int64, name, roles string) (*domain.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	roleNames := splitRoles(roles)
	if len(roleNames) == 0 {
		return nil, domain.ErrNoRolesResolved
	}

	t := &domain.Template{
		GuildID:   guildID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	for _, r := range roleNames {
		t.Roles = append(t.Roles, &domain.TemplateRole{RoleName: r})
	}
	if err := s.templateRepo.CreateWithRoles(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *templateService) List(ctx context.Context, guildID int64) ([]*domain.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.templateRepo.ListByGuild(ctx, guildID)
}

func (s *templateService) Delete(ctx context.Context, guildID int64, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.templateRepo.Delete(ctx, guildID, strings.TrimSpace(name))
}
