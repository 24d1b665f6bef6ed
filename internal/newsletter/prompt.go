package newsletter

import (
	_ "embed"

	"github.com/dmitrymomot/newsletter/pkg/agent"
)

//go:embed prompts/digest.md
var digestPrompt []byte

// DigestPrompt returns the built-in prompt for the daily AI news digest.
func DigestPrompt() (*agent.Prompt, error) {
	return agent.ParsePrompt(digestPrompt)
}
