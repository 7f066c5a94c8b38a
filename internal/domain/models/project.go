package models

import "time"

// ProjectStatus is the generation state of a project
type ProjectStatus string

const (
	// ProjectStatusDraft is the state of every newly created project
	ProjectStatusDraft ProjectStatus = "draft"

	// ProjectStatusGenerated is entered by the first successful generation and never left
	ProjectStatusGenerated ProjectStatus = "generated"
)

// Project binds a template and variable values to the latest generated output.
type Project struct {
	ID            string        `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	Description   *string       `json:"description" db:"description"`
	TemplateID    *string       `json:"template_id" db:"template_id"` // NULL once the template is deleted
	UserID        string        `json:"user_id" db:"user_id"`
	Config        JSONMap       `json:"config" db:"config"`
	Status        ProjectStatus `json:"status" db:"status"`
	GeneratedCode *string       `json:"generated_code" db:"generated_code"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time    `json:"updated_at" db:"updated_at"`
}

// OwnerID implements Owned
func (p *Project) OwnerID() string { return p.UserID }

// HasTemplate reports whether the project is still bound to a template
func (p *Project) HasTemplate() bool {
	return p.TemplateID != nil && *p.TemplateID != ""
}

// MarkGenerated stores output and moves the project into the generated state.
func (p *Project) MarkGenerated(code string) {
	p.GeneratedCode = &code
	p.Status = ProjectStatusGenerated
}

// ProjectCode is the read model for a project's latest output
type ProjectCode struct {
	ProjectID string        `json:"project_id"`
	Code      *string       `json:"code"`
	Status    ProjectStatus `json:"status"`
}
