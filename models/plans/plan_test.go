package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func roadmap(flags ...bool) []RoadmapStep {
	steps := make([]RoadmapStep, len(flags))
	for i, done := range flags {
		steps[i] = RoadmapStep{Day: i + 1, Topic: "topic", Completed: done}
	}
	return steps
}

func TestProgress(t *testing.T) {
	cases := []struct {
		name  string
		flags []bool
		want  int
	}{
		{"empty roadmap", nil, 0},
		{"none done", []bool{false, false}, 0},
		{"all done", []bool{true, true, true}, 100},
		{"one of three rounds down", []bool{true, false, false}, 33},
		{"two of three rounds up", []bool{true, true, false}, 67},
		{"half", []bool{true, false}, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Plan{Roadmap: roadmap(tc.flags...)}
			assert.Equal(t, tc.want, p.Progress())
		})
	}
}

func TestStepIndex(t *testing.T) {
	p := &Plan{Roadmap: []RoadmapStep{{Day: 2}, {Day: 5}}}

	assert.Equal(t, 1, p.StepIndex(5))
	assert.Equal(t, -1, p.StepIndex(3))
}
