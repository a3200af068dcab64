package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventbot/internal/domain"
)

type templateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{DB: db}
}

func (r *templateRepository) CreateWithRoles(ctx context.Context, t *domain.Template) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO templates (guild_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, t.GuildID, t.Name, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert template: %w", err)
	}

	roleQuery := `
		INSERT INTO template_roles (template_id, role_name)
		VALUES ($1, $2)
		RETURNING id
	`
	for _, role := range t.Roles {
		role.TemplateID = t.ID
		if err := tx.QueryRowContext(ctx, roleQuery, t.ID, role.RoleName).Scan(&role.ID); err != nil {
			return fmt.Errorf("insert template role %q: %w", role.RoleName, err)
		}
	}

	return tx.Commit()
}

func (r *templateRepository) GetByName(ctx context.Context, guildID int64, name string) (*domain.Template, error) {
	query := `
		SELECT id, guild_id, name, created_at
		FROM templates
		WHERE guild_id = $1 AND name = $2
	`
	t := &domain.Template{}
	err := r.DB.QueryRowContext(ctx, query, guildID, name).
		Scan(&t.ID, &t.GuildID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	roles, err := r.rolesByTemplateID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Roles = roles
	return t, nil
}

func (r *templateRepository) ListByGuild(ctx context.Context, guildID int64) ([]*domain.Template, error) {
	query := `
		SELECT id, guild_id, name, created_at
		FROM templates
		WHERE guild_id = $1
		ORDER BY name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	templates := make([]*domain.Template, 0)
	for rows.Next() {
		t := &domain.Template{}
		if err := rows.Scan(&t.ID, &t.GuildID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range templates {
		roles, err := r.rolesByTemplateID(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Roles = roles
	}
	return templates, nil
}

// rolesByTemplateID returns roles in insertion order; that order defines the
// slot layout when the template is used.
func (r *templateRepository) rolesByTemplateID(ctx context.Context, templateID int64) ([]*domain.TemplateRole, error) {
	query := `
		SELECT id, template_id, role_name
		FROM template_roles
		WHERE template_id = $1
		ORDER BY id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	roles := make([]*domain.TemplateRole, 0)
	for rows.Next() {
		role := &domain.TemplateRole{}
		if err := rows.Scan(&role.ID, &role.TemplateID, &role.RoleName); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *templateRepository) Delete(ctx context.Context, guildID int64, name string) error {
	query := `DELETE FROM templates WHERE guild_id = $1 AND name = $2`
	result, err := r.DB.ExecContext(ctx, query, guildID, name)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
