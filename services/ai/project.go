package ai

import (
	"errors"
	"strings"
)

type ProjectPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   string   `json:"techStack"`
	Steps       []string `json:"steps"`
}

func ValidateProject(p *ProjectPayload) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.TechStack = strings.TrimSpace(p.TechStack)
	p.Steps = compact(p.Steps)
	if p.Title == "" {
		return errors.New("title is empty")
	}
	if len(p.Steps) == 0 {
		return errors.New("steps is empty")
	}
	return nil
}

// FallbackProject is used when generation fails. languages, when given,
// becomes the tech stack.
func FallbackProject(languages string) ProjectPayload {
	return ProjectPayload{
		Title:       "Personal Task Manager",
		Description: "Build a small task manager with a REST API, persistent storage and a minimal client.",
		TechStack:   orDefault(languages, "Go, SQLite"),
		Steps: []string{
			"Define the task model and storage schema",
			"Implement create, list, update and delete endpoints",
			"Add input validation and error handling",
			"Write tests for the API",
			"Build a minimal client and deploy",
		},
	}
}
