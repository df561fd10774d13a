package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft"
)

const sampleSource = "@trigger\ntype: webhook\npath: /ping\n\n@workflow\n1. notify slack channel\n"

func TestHandleCompile(t *testing.T) {
	s := NewServer(graft.New())

	resp, err := s.handleCompile(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"source": sampleSource,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Contract)
	assert.Len(t, resp.Contract.Steps, 1)
}

func TestHandleCompileEmptySource(t *testing.T) {
	s := NewServer(graft.New())
	_, err := s.handleCompile(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	assert.Error(t, err)
}

func TestHandleGenerate(t *testing.T) {
	s := NewServer(graft.New())

	resp, err := s.handleGenerate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"source": sampleSource,
		"name":   "ping watcher",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Workflow)
	assert.Equal(t, "ping watcher", resp.Workflow.Name)
	require.NotNil(t, resp.Report)
	assert.True(t, resp.Report.Success)
}

func TestHandleValidate(t *testing.T) {
	engine := graft.New()
	gen := engine.Generate(sampleSource)
	require.True(t, gen.Success())

	s := NewServer(engine)
	report, err := s.handleValidate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"workflow": string(gen.JSON),
	})
	require.NoError(t, err)
	assert.True(t, report.Success)
}

func TestHandleValidateBadDocument(t *testing.T) {
	s := NewServer(graft.New())
	_, err := s.handleValidate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"workflow": "{broken",
	})
	assert.Error(t, err)
}
