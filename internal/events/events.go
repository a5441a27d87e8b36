// Package events emits mutation events so dashboard clients can refresh
// without polling. Publishing is best-effort: a failed publish is logged by
// the caller and never fails the mutation.
package events

import (
	"context"

	"github.com/carvallo/girder/internal/model"
)

// Event topic constants
const (
	TopicTaskCreated = "girder.task.created"
	TopicTaskUpdated = "girder.task.updated"
	TopicTaskDeleted = "girder.task.deleted"

	TopicCashflowCreated = "girder.cashflow.created"
	TopicCashflowUpdated = "girder.cashflow.updated"
	TopicCashflowDeleted = "girder.cashflow.deleted"
)

// Event types

type TaskCreated struct {
	ProjectKey string      `json:"projectKey"`
	Task       *model.Task `json:"task"`
}

type TaskUpdated struct {
	Task *model.Task `json:"task"`
}

type TaskDeleted struct {
	ID string `json:"id"`
}

type CashflowCreated struct {
	ProjectKey string               `json:"projectKey"`
	Entry      *model.CashflowEntry `json:"entry"`
}

type CashflowUpdated struct {
	Entry *model.CashflowEntry `json:"entry"`
}

type CashflowDeleted struct {
	ID string `json:"id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
