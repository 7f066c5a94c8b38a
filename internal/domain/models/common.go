package models

// JSONMap is a type alias for JSONB columns
type JSONMap map[string]interface{}

// Owned is implemented by every entity that carries a single owner.
// The owner id is set at creation and never changes afterwards.
type Owned interface {
	OwnerID() string
}

// OptionalString tracks tri-state semantics for nullable string updates (RFC 7396 PATCH).
// This is transport-agnostic (no JSON tags) - handler maps from httputil.OptionalString.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&"": field is empty string
//   - Present=true, Value=&"text": field has value
type OptionalString struct {
	Present bool
	Value   *string
}

// Apply writes the update into dst when the field was present.
func (o OptionalString) Apply(dst **string) {
	if !o.Present {
		return
	}
	if o.Value == nil {
		*dst = nil
		return
	}
	v := *o.Value
	*dst = &v
}
