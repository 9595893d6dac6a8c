package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/leadflowhq/leadflow/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() auditdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *auditdomain.AuditLog) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO audit_logs (
			id, org_id, actor_type, actor_id, action, target_type, target_id, target_label,
			metadata, ip_address, user_agent, request_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.OrgID,
		entry.ActorType,
		entry.ActorID,
		entry.Action,
		entry.TargetType,
		entry.TargetID,
		entry.TargetLabel,
		entry.Metadata,
		entry.IPAddress,
		entry.UserAgent,
		entry.RequestID,
		entry.CreatedAt,
	).Error
}

func (r *repo) ListRecent(ctx context.Context, db *gorm.DB, orgID snowflake.ID, limit int) ([]auditdomain.AuditLog, error) {
	var entries []auditdomain.AuditLog
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, actor_type, actor_id, action, target_type, target_id, target_label,
		 metadata, ip_address, user_agent, request_id, created_at
		 FROM audit_logs
		 WHERE org_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		orgID,
		limit,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) ListBefore(ctx context.Context, db *gorm.DB, orgID snowflake.ID, beforeID snowflake.ID, limit int) ([]auditdomain.AuditLog, error) {
	var entries []auditdomain.AuditLog
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, actor_type, actor_id, action, target_type, target_id, target_label,
		 metadata, ip_address, user_agent, request_id, created_at
		 FROM audit_logs
		 WHERE org_id = ? AND id < ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		orgID,
		beforeID,
		limit,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
