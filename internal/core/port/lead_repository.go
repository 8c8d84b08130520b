package port

import (
	"context"

	"github.com/AnndyBrock/real-estate-app/internal/core/domain"
)

// LeadRepository persists inquiry records.
type LeadRepository interface {
	Create(ctx context.Context, lead domain.Lead) error
	// GetByIDForAgent returns the lead only when it belongs to the agent.
	GetByIDForAgent(ctx context.Context, id string, agentID string) (*domain.Lead, error)
	// ListByAgent returns the agent's leads, newest first.
	ListByAgent(ctx context.Context, agentID string) ([]domain.Lead, error)
}
