package generator

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a senior full-stack engineer generating a production-ready project scaffold.
Respond with a single JSON object and nothing else, using this shape:
{
  "framework": "short framework name",
  "summary": "one paragraph describing the generated app",
  "files": [{"path": "relative/path.ext", "content": "file contents", "language": "typescript"}],
  "database_schema": "SQL DDL for the data model",
  "deployment_config": "deployment notes or config"
}
Paths must be relative, use forward slashes and never contain "..".`

// BuildPrompt renders the user-facing description into provider-neutral prompt text.
func BuildPrompt(r Request) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", strings.TrimSpace(r.Title))
	if r.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", r.Category)
	}
	section := func(name, body string) {
		body = strings.TrimSpace(body)
		if body == "" {
			return
		}
		fmt.Fprintf(&b, "\n## %s\n%s\n", name, body)
	}
	section("Description", r.Description)
	section("Features", r.Features)
	section("Design preferences", r.DesignPreferences)
	section("Technical requirements", r.TechRequirements)
	return Prompt{System: systemPrompt, User: b.String(), Request: r}
}
