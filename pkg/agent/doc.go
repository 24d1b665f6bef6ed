// Package agent defines the contract for search-capable LLM agents and the
// Fetcher that drives them.
//
// A Prompt file carries the role and task in YAML frontmatter and the
// instructions as a markdown list; all three are text/template sources
// rendered with the run date. Providers live in subpackages (gemini, openai)
// and report failures as *ProviderError so the Fetcher can tell transient
// errors from permanent ones.
package agent
