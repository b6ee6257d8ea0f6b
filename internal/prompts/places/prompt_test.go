package places

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jackzampolin/mapscrape/internal/prompts"
)

func TestUserPrompt(t *testing.T) {
	assert.Equal(t,
		`Find all "Coffee Shops in Baku, Azerbaijan". List as many as possible. Format the output as a Markdown table.`,
		UserPrompt("Coffee Shops in Baku, Azerbaijan"))
}

func TestSystemPrompt(t *testing.T) {
	sys := SystemPrompt()
	for _, s := range []string{
		"| Name | Address | Rating | Reviews | Website | Phone |",
		"'N/A'",
		"googleMaps",
	} {
		assert.Contains(t, sys, s)
	}
}

func resolverWith(overrides map[string]string) *prompts.Resolver {
	r := prompts.NewResolver(nil)
	RegisterPrompts(r)
	r.SetOverrides(overrides)
	return r
}

func TestRender(t *testing.T) {
	tests := []struct {
		name       string
		resolver   *prompts.Resolver
		wantSystem string
		wantUser   string
	}{
		{
			name:       "nil resolver uses embedded",
			wantSystem: SystemPrompt(),
			wantUser:   UserPrompt("Banks in Oslo"),
		},
		{
			name:       "overrides applied",
			resolver:   resolverWith(map[string]string{SystemPromptKey: "be brief", UserPromptKey: "List {{.Query}}"}),
			wantSystem: "be brief",
			wantUser:   "List Banks in Oslo",
		},
		{
			name:       "broken override falls back to raw text",
			resolver:   resolverWith(map[string]string{UserPromptKey: "List {{.Query"}),
			wantSystem: SystemPrompt(),
			wantUser:   "List {{.Query",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, user := Render(tt.resolver, "Banks in Oslo")
			assert.Equal(t, tt.wantSystem, sys)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}
