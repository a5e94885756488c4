package store

import (
	"context"

	"github.com/seantiz/draftbridge/internal/model"
)

// InvocationStats holds aggregate invocation statistics.
type InvocationStats struct {
	Total         int            `json:"total"`
	CountByStatus map[string]int `json:"count_by_status"`
	CountByKind   map[string]int `json:"count_by_kind"`
	AvgDurationMS float64        `json:"avg_duration_ms"`
}

// Store defines the persistence operations for invocation history. History
// is write-once telemetry: records are never updated after creation and
// never feed back into invocation behavior.
type Store interface {
	CreateInvocation(ctx context.Context, inv *model.Invocation) error
	GetInvocation(ctx context.Context, id string) (*model.Invocation, error)
	ListInvocations(ctx context.Context, limit, offset int) ([]*model.Invocation, int, error)
	GetInvocationStats(ctx context.Context) (*InvocationStats, error)
	Close() error
}
