package agent

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// Prompt is a parsed prompt file: YAML frontmatter with role and task,
// followed by a body whose "- " list items are the instructions.
// Role, task and body are text/template sources rendered with PromptData.
type Prompt struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
	Task string `yaml:"task"`

	role *template.Template
	task *template.Template
	body *template.Template
}

// PromptData is the template context for prompt rendering.
type PromptData struct {
	Date time.Time
}

// DateString is the date in YYYY-MM-DD form.
func (d PromptData) DateString() string {
	return d.Date.Format(time.DateOnly)
}

// ParsePrompt parses prompt file content.
//
//	---
//	role: You are a web search analyst.
//	task: Fetch the latest AI news.
//	---
//	- Only include content published after {{.DateString}}.
func ParsePrompt(content []byte) (*Prompt, error) {
	delimiter := []byte("---")

	if !bytes.HasPrefix(content, delimiter) {
		return nil, fmt.Errorf("%w: missing frontmatter", ErrInvalidPrompt)
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, delimiter), "\r\n")
	end := bytes.Index(rest, delimiter)
	if end == -1 {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidPrompt)
	}

	p := &Prompt{}
	if err := yaml.Unmarshal(rest[:end], p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrompt, err)
	}
	if strings.TrimSpace(p.Task) == "" {
		return nil, fmt.Errorf("%w: task is required", ErrInvalidPrompt)
	}

	var err error
	if p.role, err = parseTemplate("role", p.Role); err != nil {
		return nil, err
	}
	if p.task, err = parseTemplate("task", p.Task); err != nil {
		return nil, err
	}
	if p.body, err = parseTemplate("body", string(rest[end+len(delimiter):])); err != nil {
		return nil, err
	}

	return p, nil
}

// Render builds a Request for the given data.
func (p *Prompt) Render(data PromptData) (Request, error) {
	role, err := execute(p.role, data)
	if err != nil {
		return Request{}, err
	}
	task, err := execute(p.task, data)
	if err != nil {
		return Request{}, err
	}
	body, err := execute(p.body, data)
	if err != nil {
		return Request{}, err
	}

	return Request{
		Role:         role,
		Task:         task,
		Instructions: instructions(body),
	}, nil
}

// instructions collects "- " list items. Indented lines continue the previous item.
func instructions(body string) []string {
	var out []string
	for line := range strings.Lines(body) {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- "):
			out = append(out, strings.TrimSpace(trimmed[2:]))
		case trimmed != "" && len(out) > 0 && (line[0] == ' ' || line[0] == '\t'):
			out[len(out)-1] += " " + trimmed
		}
	}
	return out
}

func parseTemplate(name, src string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPrompt, name, err)
	}
	return t, nil
}

func execute(t *template.Template, data PromptData) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidPrompt, t.Name(), err)
	}
	return strings.TrimSpace(b.String()), nil
}
