package domain

import (
	"context"
	"time"
)

// Template is a reusable, per-guild named list of slot roles.
type Template struct {
	ID        int64           `json:"id"`
	GuildID   int64           `json:"guild_id"`
	Name      string          `json:"name"`
	Roles     []*TemplateRole `json:"roles"`
	CreatedAt time.Time       `json:"created_at"`
}

// RoleNames returns the template's role labels in insertion order.
func (t *Template) RoleNames() []string {
	names := make([]string, 0, len(t.Roles))
	for _, r := range t.Roles {
		names = append(names, r.RoleName)
	}
	return names
}

// TemplateRole is one role label of a template. Insertion order defines the
// slot order when the template is used.
type TemplateRole struct {
	ID         int64  `json:"id"`
	TemplateID int64  `json:"template_id"`
	RoleName   string `json:"role_name"`
}

// TemplateRepository defines the interface for role-template storage.
type TemplateRepository interface {
	// CreateWithRoles inserts the template and its roles in a single
	// transaction. A duplicate (guild, name) pair yields ErrAlreadyExists.
	CreateWithRoles(ctx context.Context, t *Template) error
	// GetByName returns the guild's template with roles eagerly loaded in
	// insertion order, or ErrNotFound.
	GetByName(ctx context.Context, guildID int64, name string) (*Template, error)
	// ListByGuild returns the guild's templates ordered by name, roles
	// eagerly loaded.
	ListByGuild(ctx context.Context, guildID int64) ([]*Template, error)
	// Delete removes the named template and its roles, or ErrNotFound.
	Delete(ctx context.Context, guildID int64, name string) error
}

// TemplateService defines the per-guild template CRUD workflow.
type TemplateService interface {
	Create(ctx context.Context, guildID int64, name, roles string) (*Template, error)
	List(ctx context.Context, guildID int64) ([]*Template, error)
	Delete(ctx context.Context, guildID int64, name string) error
}
