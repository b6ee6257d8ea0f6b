package types

// CitationSource is a single grounding reference.
type CitationSource struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// Citation is a grounding chunk returned alongside generated text.
// Either source may be absent.
type Citation struct {
	Web  *CitationSource `json:"web,omitempty"`
	Maps *CitationSource `json:"maps,omitempty"`
}

// URI returns the maps URI when present, otherwise the web URI.
// Returns "" when neither carries a URI.
func (c Citation) URI() string {
	if c.Maps != nil && c.Maps.URI != "" {
		return c.Maps.URI
	}
	if c.Web != nil && c.Web.URI != "" {
		return c.Web.URI
	}
	return ""
}
