package ai

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"craftmyprep-backend/models/plans"
)

// PlanPayload is the structured plan expected from the provider.
type PlanPayload struct {
	Skills    []string            `json:"skills"`
	Roadmap   []plans.RoadmapStep `json:"roadmap"`
	Projects  []plans.ProjectIdea `json:"projects"`
	Questions []string            `json:"questions"`
	Resources []plans.Resource    `json:"resources"`
}

// ValidatePlan rejects payloads without skills or roadmap and roadmaps whose
// day identifiers are missing or repeated. Accepted roadmaps are sorted by day
// and reset to not completed.
func ValidatePlan(p *PlanPayload) error {
	p.Skills = compact(p.Skills)
	if len(p.Skills) == 0 {
		return errors.New("skills is empty")
	}
	if len(p.Roadmap) == 0 {
		return errors.New("roadmap is empty")
	}

	seen := make(map[int]bool, len(p.Roadmap))
	for i := range p.Roadmap {
		step := &p.Roadmap[i]
		if step.Day < 1 {
			return fmt.Errorf("roadmap step %d has no valid day", i)
		}
		if seen[step.Day] {
			return fmt.Errorf("roadmap day %d is repeated", step.Day)
		}
		seen[step.Day] = true
		step.Topic = strings.TrimSpace(step.Topic)
		if step.Topic == "" {
			return fmt.Errorf("roadmap day %d has no topic", step.Day)
		}
		step.Activities = compact(step.Activities)
		step.Completed = false
	}
	sort.Slice(p.Roadmap, func(i, j int) bool { return p.Roadmap[i].Day < p.Roadmap[j].Day })

	p.Questions = compact(p.Questions)
	return nil
}

// FallbackPlan is the fixed plan used whenever generation fails.
func FallbackPlan() PlanPayload {
	return PlanPayload{
		Skills: []string{"Data Structures & Algorithms", "System Design", "Problem Solving", "Communication"},
		Roadmap: []plans.RoadmapStep{
			{Day: 1, Topic: "Arrays, Strings and Hashing", Activities: []string{"Review time and space complexity", "Solve 3 easy array problems"}},
			{Day: 2, Topic: "Linked Lists, Stacks and Queues", Activities: []string{"Implement a stack and a queue", "Solve 2 linked list problems"}},
			{Day: 3, Topic: "Trees and Graphs", Activities: []string{"Practice BFS and DFS", "Solve 2 tree traversal problems"}},
			{Day: 4, Topic: "System Design Basics", Activities: []string{"Study load balancing and caching", "Sketch the design of a URL shortener"}},
			{Day: 5, Topic: "Behavioral Preparation", Activities: []string{"Write 3 STAR stories", "Run a mock interview"}},
		},
		Projects: []plans.ProjectIdea{
			{Title: "Task Tracker API", Description: "A REST API with authentication, persistence and tests."},
			{Title: "URL Shortener", Description: "A small service with hashing, redirects and usage counters."},
		},
		Questions: []string{
			"Tell me about a challenging project you worked on.",
			"How would you find a cycle in a linked list?",
			"Explain the difference between a process and a thread.",
		},
		Resources: []plans.Resource{
			{Title: "NeetCode Roadmap", Link: "https://neetcode.io/roadmap"},
			{Title: "System Design Primer", Link: "https://github.com/donnemartin/system-design-primer"},
		},
	}
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
