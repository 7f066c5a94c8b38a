package main

import (
	"testing"

	"codegen/internal/service/codegen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	requests, err := loadCatalog("owner-1")
	require.NoError(t, err)
	require.NotEmpty(t, requests)

	engine := codegen.NewEngine()
	names := make(map[string]bool)
	for _, req := range requests {
		assert.Equal(t, "owner-1", req.UserID)
		assert.True(t, req.IsPublic)
		assert.NotEmpty(t, req.Name)
		assert.NotEmpty(t, req.Category)
		assert.NotEmpty(t, req.Language)
		assert.True(t, engine.Validate(req.Content), req.Name)
		assert.False(t, names[req.Name], "duplicate %s", req.Name)
		names[req.Name] = true

		// every documented variable appears in the content
		placeholders := engine.Placeholders(req.Content)
		for name := range req.Variables {
			assert.Contains(t, placeholders, name, req.Name)
		}
	}
}
