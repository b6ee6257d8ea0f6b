// Package prompts holds the prompts sent to providers. Each key has an
// embedded default registered in code; a config override, when set, wins.
package prompts

// EmbeddedPrompt is a built-in default.
type EmbeddedPrompt struct {
	Key         string // e.g. places.system
	Text        string // text/template source
	Description string
	Variables   []string // filled by Register when nil
	Hash        string   // sha256 of Text, filled by Register when empty
}

// ResolvedPrompt is what Resolve returns for a key.
type ResolvedPrompt struct {
	Key        string   `json:"key"`
	Text       string   `json:"text"`
	Variables  []string `json:"variables,omitempty"`
	Hash       string   `json:"hash"`
	IsOverride bool     `json:"is_override"`
}
