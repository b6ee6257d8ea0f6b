// Package places holds the prompts for business list extraction.
package places

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/jackzampolin/mapscrape/internal/prompts"
)

var (
	//go:embed system.tmpl
	systemPrompt string

	//go:embed user.tmpl
	userPromptTmpl string
)

const (
	SystemPromptKey = "places.system"
	UserPromptKey   = "places.user"
)

// SystemPrompt is the embedded system instruction.
func SystemPrompt() string { return systemPrompt }

// UserPrompt renders the embedded user prompt for query.
func UserPrompt(query string) string { return renderUser(userPromptTmpl, query) }

// Render returns the system and user prompts for query with r's overrides
// applied. A nil r gives the embedded defaults.
func Render(r *prompts.Resolver, query string) (system, user string) {
	if r == nil {
		return SystemPrompt(), UserPrompt(query)
	}
	system = r.Text(SystemPromptKey, systemPrompt)
	user = renderUser(r.Text(UserPromptKey, userPromptTmpl), query)
	return system, user
}

// renderUser executes src with .Query bound. Text that does not parse or
// execute is returned as is.
func renderUser(src, query string) string {
	t, err := template.New(UserPromptKey).Parse(src)
	if err != nil {
		return src
	}
	var sb strings.Builder
	if err := t.Execute(&sb, map[string]string{"Query": query}); err != nil {
		return src
	}
	return sb.String()
}

// RegisterPrompts adds both defaults to r.
func RegisterPrompts(r *prompts.Resolver) {
	for _, p := range []prompts.EmbeddedPrompt{
		{Key: SystemPromptKey, Text: systemPrompt, Description: "System instruction: exhaustive Markdown table of places from the maps tool"},
		{Key: UserPromptKey, Text: userPromptTmpl, Description: "User prompt template, {{.Query}} is \"<category> in <location>\""},
	} {
		r.Register(p)
	}
}
