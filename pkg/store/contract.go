package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/workflow"
)

// RunStoreContract runs a suite of tests to verify that a Store
// implementation adheres to the interface contract. Backend test files
// call it with their configured store.
func RunStoreContract(t *testing.T, s Store) {
	ctx := context.Background()
	id := "contract-test-" + time.Now().Format("20060102150405")

	record := func() *Record {
		c := &contract.Contract{
			Trigger: contract.Trigger{Kind: contract.TriggerWebhook, Path: "/x"},
			Steps:   []contract.Step{{Number: 1, Action: "notify slack", NodeType: contract.NodeSlack}},
		}
		return &Record{
			Name:     "contract test",
			Source:   "@trigger\ntype: webhook\n",
			Contract: c,
			Workflow: workflow.Generate(c, workflow.DefaultOptions()).Workflow,
			SavedAt:  time.Now().UTC(),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		rec := record()
		require.NoError(t, s.Save(ctx, id, rec), "Save should not return error")

		loaded, err := s.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.Name, loaded.Name)
		assert.Equal(t, rec.Source, loaded.Source)
		require.NotNil(t, loaded.Workflow)
		assert.Len(t, loaded.Workflow.Nodes, len(rec.Workflow.Nodes))
		assert.Equal(t, rec.Workflow.ConnectionCount(), loaded.Workflow.ConnectionCount())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := s.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, id, record()))
		require.NoError(t, s.Delete(ctx, id), "Delete should not return error")

		_, err := s.Load(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, "Load after Delete should return ErrNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = s.Save(ctx, id1, record())
		_ = s.Save(ctx, id2, record())
		defer func() {
			_ = s.Delete(ctx, id1)
			_ = s.Delete(ctx, id2)
		}()

		ids, err := s.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
