package deployer

import (
	"fmt"
	"sort"

	"github.com/saas-factory/api/internal/modules/model"
	"gopkg.in/yaml.v3"
)

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Volumes  map[string]struct{}       `yaml:"volumes,omitempty"`
}

type composeService struct {
	Image       string            `yaml:"image,omitempty"`
	Build       string            `yaml:"build,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
}

// ComposeConfig synthesizes a docker-compose file for artifacts that came back without
// deployment config. A database service is added when the artifact carries a schema.
func ComposeConfig(code *model.GeneratedCode) (string, error) {
	app := composeService{
		Build:       ".",
		Ports:       []string{appPort(code.Framework) + ":" + appPort(code.Framework)},
		Environment: map[string]string{"NODE_ENV": "production"},
	}
	cf := composeFile{Services: map[string]composeService{}}

	if code.DatabaseSchema != "" {
		app.Environment["DATABASE_URL"] = "postgresql://app:app@db:5432/app"
		app.DependsOn = []string{"db"}
		cf.Services["db"] = composeService{
			Image: "postgres:16-alpine",
			Environment: map[string]string{
				"POSTGRES_USER":     "app",
				"POSTGRES_PASSWORD": "app",
				"POSTGRES_DB":       "app",
			},
			Volumes: []string{"db-data:/var/lib/postgresql/data"},
		}
		cf.Volumes = map[string]struct{}{"db-data": {}}
	}
	cf.Services["app"] = app

	out, err := yaml.Marshal(cf)
	if err != nil {
		return "", fmt.Errorf("marshal compose: %w", err)
	}
	return string(out), nil
}

// ServiceNames parses a compose document and lists its services, sorted.
func ServiceNames(doc string) ([]string, error) {
	var cf composeFile
	if err := yaml.Unmarshal([]byte(doc), &cf); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cf.Services))
	for n := range cf.Services {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func appPort(framework string) string {
	switch framework {
	case "vite", "react":
		return "4173"
	case "express", "fastify":
		return "8080"
	}
	return "3000"
}
