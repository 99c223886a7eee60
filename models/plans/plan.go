package plans

import (
	"math"
	"time"

	"gorm.io/datatypes"

	"craftmyprep-backend/models/users"
)

// Plan is a generated learning roadmap for one job description.
type Plan struct {
	ID        uint                             `json:"id" gorm:"primaryKey"`
	UserID    uint                             `json:"userId" gorm:"index;not null"`
	User      users.User                       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	JD        string                           `json:"jd" gorm:"type:text;not null"`
	Skills    datatypes.JSONSlice[string]      `json:"skills"`
	Roadmap   datatypes.JSONSlice[RoadmapStep] `json:"roadmap"`
	Projects  datatypes.JSONSlice[ProjectIdea] `json:"projects"`
	Questions datatypes.JSONSlice[string]      `json:"questions"`
	Resources datatypes.JSONSlice[Resource]    `json:"resources"`
	CreatedAt time.Time                        `json:"createdAt"`
}

// RoadmapStep is one day of work. Day is the step identifier: unique within a
// plan and ascending along the roadmap.
type RoadmapStep struct {
	Day        int      `json:"day"`
	Topic      string   `json:"topic"`
	Activities []string `json:"activities"`
	Completed  bool     `json:"completed"`
}

type ProjectIdea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Resource struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// StepIndex returns the index of the step with the given day, or -1.
func (p *Plan) StepIndex(day int) int {
	for i, step := range p.Roadmap {
		if step.Day == day {
			return i
		}
	}
	return -1
}

// CompletedSteps counts steps marked completed.
func (p *Plan) CompletedSteps() int {
	n := 0
	for _, step := range p.Roadmap {
		if step.Completed {
			n++
		}
	}
	return n
}

// Progress is round(100 * completed / total), 0 for an empty roadmap.
func (p *Plan) Progress() int {
	total := len(p.Roadmap)
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.CompletedSteps()) / float64(total)))
}

// View is the JSON shape returned to clients: the stored plan plus its
// derived progress.
type View struct {
	*Plan
	Progress int `json:"progress"`
}

func (p *Plan) View() View {
	return View{Plan: p, Progress: p.Progress()}
}
