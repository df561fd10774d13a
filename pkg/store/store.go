// Package store persists compiled workflows so serving adapters can hand
// them out without recompiling. Backends share a small contract; the
// memory store covers tests and single-process use, the redis store
// covers shared deployments.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/workflow"
)

// ErrNotFound is returned when a workflow id has no stored record.
var ErrNotFound = errors.New("workflow not found")

// Record is one stored compilation result. Source keeps the original DSL
// text so a record can be recompiled after rule or catalog changes.
type Record struct {
	Name     string             `json:"name"`
	Source   string             `json:"source,omitempty"`
	Contract *contract.Contract `json:"contract,omitempty"`
	Workflow *workflow.Workflow `json:"workflow"`
	SavedAt  time.Time          `json:"saved_at"`
}

// Store is the persistence contract for compiled workflows.
type Store interface {
	Save(ctx context.Context, id string, rec *Record) error
	Load(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}
