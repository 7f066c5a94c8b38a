package services

// CodeGenerator validates and renders template text against a variable mapping.
// Implementations are pure: no I/O, no mutation of their inputs.
type CodeGenerator interface {
	// Validate reports whether "{{" and "}}" occur equally often in content
	Validate(content string) bool

	// Render substitutes every {{key}} for the supplied variables.
	// Returns *domain.TemplateMalformedError when Validate fails.
	Render(content string, variables map[string]interface{}) (string, error)

	// Placeholders lists distinct placeholder names in order of first appearance
	Placeholders(content string) []string
}
