package postgres

import (
	"context"
	"fmt"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

func (r repo) InsertAudit(ctx context.Context, entry model.AuditEntry) error {
	if err := r.ready(); err != nil {
		return err
	}

	if _, err := r.q.Exec(ctx, `
INSERT INTO moderation_audit (
	id,
	actor_id,
	actor_role,
	action,
	entity_type,
	entity_id,
	from_status,
	to_status,
	note,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`,
		entry.ID,
		entry.ActorID,
		string(entry.ActorRole),
		string(entry.Action),
		string(entry.EntityType),
		entry.EntityID,
		entry.FromStatus,
		entry.ToStatus,
		entry.Note,
		entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r repo) ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, `
SELECT id, actor_id, actor_role, action, entity_type, entity_id, from_status, to_status, note, created_at
FROM moderation_audit
ORDER BY created_at DESC, id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()

	out := make([]model.AuditEntry, 0, limit)
	for rows.Next() {
		var (
			entry      model.AuditEntry
			role       string
			action     string
			entityType string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&role,
			&action,
			&entityType,
			&entry.EntityID,
			&entry.FromStatus,
			&entry.ToStatus,
			&entry.Note,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ActorRole = enums.Role(role)
		entry.Action = enums.Action(action)
		entry.EntityType = enums.EntityType(entityType)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit: %w", err)
	}
	return out, nil
}
