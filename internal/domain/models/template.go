package models

import "time"

// Template is a reusable unit of source text containing {{name}} placeholders.
type Template struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	Content     string     `json:"content" db:"content"`
	Category    string     `json:"category" db:"category"`
	Language    string     `json:"language" db:"language"`
	Variables   JSONMap    `json:"variables" db:"variables"` // Informational schema: placeholder -> type/default
	UserID      string     `json:"user_id" db:"user_id"`
	IsPublic    bool       `json:"is_public" db:"is_public"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
}

// OwnerID implements Owned
func (t *Template) OwnerID() string { return t.UserID }

// TemplateFilter selects one of the fixed-priority template listings
type TemplateFilter struct {
	UserID     string // owner filter, empty = none
	Category   string
	Language   string
	PublicOnly bool
	Page       Page
}

// RenderPreview is the result of rendering a template without persisting anything
type RenderPreview struct {
	TemplateID   string   `json:"template_id"`
	Valid        bool     `json:"valid"`
	Placeholders []string `json:"placeholders"`
	Content      string   `json:"content"`
}
