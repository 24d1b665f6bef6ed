// Package search runs web searches for agents that do not have a built-in
// search tool.
//
// Web queries the Brave Search API when a key is configured and falls back to
// DuckDuckGo's HTML endpoint otherwise (or when Brave fails).
//
//	s := search.New(search.Config{BraveAPIKey: os.Getenv("BRAVE_API_KEY")})
//	results, err := s.Search(ctx, "LLM research news")
//	fmt.Println(search.Format(results))
package search
