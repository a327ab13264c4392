package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
)

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// emitAudit persists an audit record on a best-effort basis; failures are
// logged and never surface to the caller.
func emitAudit(ctx context.Context, audit auditLogger, logger *zap.Logger, source string, log *models.AuditLog) {
	if audit == nil || log == nil {
		return
	}
	log.IPAddress = "system"
	log.UserAgent = source
	if err := audit.CreateAuditLog(ctx, log); err != nil {
		logger.Warn("failed to persist audit log", zap.String("action", log.Action), zap.Error(err))
	}
}

func auditPayload(v interface{}) []byte {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
