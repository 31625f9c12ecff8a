package services

import (
	"context"
	"fmt"

	"github.com/sjperalta/fintera-ledger/internal/models"
	"github.com/sjperalta/fintera-ledger/internal/repository"
)

// Actor identifies who triggered a mutation; recorded on every audit entry
type Actor struct {
	UserID    uint
	IP        string
	UserAgent string
	RequestID string
}

// SystemActor is used by background jobs and the CLI
var SystemActor = Actor{UserAgent: "system"}

type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry outside any ledger transaction
func (s *AuditService) Log(ctx context.Context, actor Actor, action, entity string, entityID uint, details string) error {
	return writeAudit(ctx, s.repo, actor, action, entity, entityID, details)
}

// List retrieves audit logs with filters
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, query)
}

// audit writes the entry through the transaction-bound repositories so it
// commits or rolls back with the change it describes
func audit(ctx context.Context, tx *repository.Repositories, actor Actor, action, entity string, entityID uint, format string, args ...interface{}) error {
	return writeAudit(ctx, tx.Audit, actor, action, entity, entityID, fmt.Sprintf(format, args...))
}

func writeAudit(ctx context.Context, repo repository.AuditRepository, actor Actor, action, entity string, entityID uint, details string) error {
	entry := &models.AuditLog{
		UserID:    actor.UserID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
		RequestID: actor.RequestID,
	}
	return repo.Create(ctx, entry)
}
