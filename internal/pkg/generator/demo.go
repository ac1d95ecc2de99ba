package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/saas-factory/api/internal/modules/model"
)

// Demo fabricates an artifact from the prompt after Delay. It never calls out.
type Demo struct {
	Delay time.Duration
}

func NewDemo(delay time.Duration) *Demo { return &Demo{Delay: delay} }

func (d *Demo) Name() string  { return "demo" }
func (d *Demo) Model() string { return "simulated" }

func (d *Demo) Generate(ctx context.Context, p Prompt) (*model.GeneratedCode, error) {
	if d.Delay > 0 {
		t := time.NewTimer(d.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return DemoArtifact(p.Request), nil
}

// DemoArtifact is a small Next.js + Prisma scaffold shaped after the request.
func DemoArtifact(r Request) *model.GeneratedCode {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = "My App"
	}
	entity := entityFor(r.Category)
	lower := strings.ToLower(entity)

	files := []model.GeneratedFile{
		{Path: "package.json", Language: "json", Content: fmt.Sprintf(`{
  "name": %q,
  "private": true,
  "scripts": {"dev": "next dev", "build": "next build", "start": "next start"},
  "dependencies": {"next": "15.0.0", "react": "19.0.0", "react-dom": "19.0.0", "@prisma/client": "6.0.0"}
}
`, slugify(title))},
		{Path: "app/page.tsx", Language: "typescript", Content: fmt.Sprintf(`export default function Home() {
  return (
    <main className="mx-auto max-w-3xl p-8">
      <h1 className="text-3xl font-bold">%s</h1>
      <p className="mt-4 text-gray-600">%s</p>
    </main>
  );
}
`, title, strings.ReplaceAll(firstLine(r.Description), "\"", "'"))},
		{Path: fmt.Sprintf("app/api/%ss/route.ts", lower), Language: "typescript", Content: fmt.Sprintf(`import { PrismaClient } from "@prisma/client";

const prisma = new PrismaClient();

export async function GET() {
  return Response.json(await prisma.%s.findMany());
}
`, lower)},
		{Path: "prisma/schema.prisma", Language: "prisma", Content: fmt.Sprintf(`model %s {
  id        String   @id @default(uuid())
  title     String
  createdAt DateTime @default(now())
}
`, entity)},
		{Path: "README.md", Language: "markdown", Content: fmt.Sprintf("# %s\n\n%s\n", title, r.Description)},
	}

	return &model.GeneratedCode{
		Framework:      "nextjs",
		Summary:        fmt.Sprintf("%s scaffold with a %s resource, API route and Prisma schema.", title, lower),
		Files:          files,
		DatabaseSchema: fmt.Sprintf("CREATE TABLE %ss (\n  id uuid PRIMARY KEY,\n  title text NOT NULL,\n  created_at timestamptz NOT NULL DEFAULT now()\n);\n", lower),
		Provider:       "demo",
		Model:          "simulated",
	}
}

func entityFor(category string) string {
	switch category {
	case "ecommerce":
		return "Product"
	case "todo":
		return "Task"
	case "blog":
		return "Post"
	case "dashboard":
		return "Metric"
	case "social":
		return "Profile"
	case "saas":
		return "Subscription"
	}
	return "Item"
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Func adapts a function to Generator.
type Func func(ctx context.Context, p Prompt) (*model.GeneratedCode, error)

func (f Func) Name() string  { return "func" }
func (f Func) Model() string { return "" }
func (f Func) Generate(ctx context.Context, p Prompt) (*model.GeneratedCode, error) {
	return f(ctx, p)
}
