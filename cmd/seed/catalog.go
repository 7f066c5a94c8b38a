package main

import (
	_ "embed"
	"fmt"

	"codegen/internal/domain/models"
	"codegen/internal/domain/services"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogEntry struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Category    string                 `yaml:"category"`
	Language    string                 `yaml:"language"`
	Variables   map[string]interface{} `yaml:"variables"`
	Content     string                 `yaml:"content"`
}

type catalog struct {
	Templates []catalogEntry `yaml:"templates"`
}

// loadCatalog parses the embedded starter catalog into create requests owned by ownerID
func loadCatalog(ownerID string) ([]*services.CreateTemplateRequest, error) {
	var c catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	requests := make([]*services.CreateTemplateRequest, 0, len(c.Templates))
	for _, entry := range c.Templates {
		description := entry.Description
		requests = append(requests, &services.CreateTemplateRequest{
			UserID:      ownerID,
			Name:        entry.Name,
			Description: &description,
			Content:     entry.Content,
			Category:    entry.Category,
			Language:    entry.Language,
			Variables:   models.JSONMap(entry.Variables),
			IsPublic:    true,
		})
	}
	return requests, nil
}
