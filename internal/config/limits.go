package config

const (
	// MaxTemplateNameLength is the maximum length for template names.
	// Matches the VARCHAR(255) column.
	MaxTemplateNameLength = 255

	// MaxCategoryLength is the maximum length for template categories.
	MaxCategoryLength = 100

	// MaxLanguageLength is the maximum length for template language tags.
	MaxLanguageLength = 50

	// MaxProjectNameLength is the maximum length for project names.
	// Matches the VARCHAR(255) column.
	MaxProjectNameLength = 255

	// MaxSearchQueryLength caps the template search term.
	MaxSearchQueryLength = 200

	// MaxRequestBodyBytes bounds JSON request bodies (templates carry full source files).
	MaxRequestBodyBytes = 2 << 20
)
