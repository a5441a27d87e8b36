// Package client is the Go client for the girder HTTP API, used by the CLI.
package client

import (
	"context"

	"github.com/carvallo/girder/internal/dashboard"
	"github.com/carvallo/girder/internal/model"
)

// GirderClient is the transport-agnostic interface to a girder server.
type GirderClient interface {
	FetchTree(ctx context.Context) (model.Tree, error)

	CreateTask(ctx context.Context, in dashboard.TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch dashboard.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) (*model.Deletion, error)

	CreateCashflow(ctx context.Context, in dashboard.CashflowInput) (*model.CashflowEntry, error)
	UpdateCashflow(ctx context.Context, id string, patch dashboard.CashflowPatch) (*model.CashflowEntry, error)
	DeleteCashflow(ctx context.Context, id string) (*model.Deletion, error)

	Health(ctx context.Context) (string, error)
	Close() error
}
