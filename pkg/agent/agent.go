package agent

import "context"

// Request is a single instruction-driven task for a search-capable model.
type Request struct {
	// Role is the persona the model adopts, sent as part of the system prompt.
	Role string
	// Instructions are rules the model must follow, sent as the system prompt.
	Instructions []string
	// Task is the user-facing request.
	Task string
}

// Source is a web page the model grounded its answer on.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Response is the model's final answer.
type Response struct {
	Content string   `json:"content"`
	Model   string   `json:"model,omitempty"`
	Sources []Source `json:"sources,omitempty"`
}

// Agent runs a Request against a hosted model that can search the web.
type Agent interface {
	Run(ctx context.Context, req Request) (*Response, error)
}

// SystemPrompt joins the role and instructions into one system message.
func SystemPrompt(req Request) string {
	var b []byte
	if req.Role != "" {
		b = append(b, req.Role...)
	}
	if len(req.Instructions) > 0 {
		if len(b) > 0 {
			b = append(b, "\n\n"...)
		}
		b = append(b, "Instructions:"...)
		for _, in := range req.Instructions {
			b = append(b, "\n- "...)
			b = append(b, in...)
		}
	}
	return string(b)
}
