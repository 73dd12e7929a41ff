package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"neurocoin/database"
	"neurocoin/models"
)

// AuditRepository implements the AuditRepository interface
type AuditRepository struct {
	q queryable
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{q: db.Pool}
}

// newAuditRepositoryWithTx creates a new audit repository with a transaction
func newAuditRepositoryWithTx(tx queryable) *AuditRepository {
	return &AuditRepository{q: tx}
}

// Record appends a new audit entry
func (r *AuditRepository) Record(ctx context.Context, entry *models.AuditEntry) error {
	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_log
		(guild_id, event_type, severity, actor_id, target_id, amount, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.GuildID,
		entry.EventType,
		entry.Severity,
		entry.ActorID,
		entry.TargetID,
		entry.Amount,
		detailsJSON,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record audit entry for actor %d: %w", entry.ActorID, wrapStorageErr(err))
	}

	return nil
}

// Query returns one page of audit entries matching the filter, newest first,
// along with the total match count
func (r *AuditRepository) Query(ctx context.Context, filter models.AuditFilter) (*models.AuditPage, error) {
	where, args := buildAuditWhere(filter)

	countQuery := `SELECT COUNT(*) FROM audit_log` + where

	var total int64
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", wrapStorageErr(err))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 25
	}
	offset := (page - 1) * limit

	pageQuery := fmt.Sprintf(`
		SELECT id, guild_id, event_type, severity, actor_id, target_id, amount, details, created_at
		FROM audit_log%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := r.q.Query(ctx, pageQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", wrapStorageErr(err))
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		var detailsJSON []byte

		err := rows.Scan(
			&entry.ID,
			&entry.GuildID,
			&entry.EventType,
			&entry.Severity,
			&entry.ActorID,
			&entry.TargetID,
			&entry.Amount,
			&detailsJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit details: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &models.AuditPage{
		Entries:    entries,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// DeleteOlderThan removes entries created before the cutoff and returns how
// many were deleted
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM audit_log WHERE created_at < $1`

	result, err := r.q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit entries older than %v: %w", cutoff, wrapStorageErr(err))
	}

	return result.RowsAffected(), nil
}

func buildAuditWhere(filter models.AuditFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.GuildID != nil {
		add("guild_id = $%d", *filter.GuildID)
	}
	if filter.EventType != nil {
		add("event_type = $%d", *filter.EventType)
	}
	if filter.Severity != nil {
		add("severity = $%d", *filter.Severity)
	}
	if filter.ActorID != nil {
		add("actor_id = $%d", *filter.ActorID)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at < $%d", *filter.To)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
