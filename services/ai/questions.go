package ai

import (
	"errors"
	"strings"
)

type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type QuestionSetPayload struct {
	Questions []QuestionAnswer `json:"questions"`
}

// ValidateQuestionSet drops entries without a question and requires at least
// one to remain.
func ValidateQuestionSet(p *QuestionSetPayload) error {
	kept := p.Questions[:0]
	for _, qa := range p.Questions {
		qa.Question = strings.TrimSpace(qa.Question)
		qa.Answer = strings.TrimSpace(qa.Answer)
		if qa.Question != "" {
			kept = append(kept, qa)
		}
	}
	p.Questions = kept
	if len(p.Questions) == 0 {
		return errors.New("questions is empty")
	}
	return nil
}

func FallbackQuestionSet() QuestionSetPayload {
	return QuestionSetPayload{Questions: []QuestionAnswer{
		{Question: "Tell me about yourself.", Answer: "Give a two minute summary: current role, key achievements, and why this position."},
		{Question: "Describe a difficult bug you fixed.", Answer: "Use the STAR format and focus on how you isolated the cause."},
		{Question: "How do you design a rate limiter?", Answer: "Discuss token bucket or sliding window, where state lives, and behaviour under failure."},
		{Question: "What happens when you type a URL into a browser?", Answer: "DNS lookup, TCP/TLS handshake, HTTP request, server processing, rendering."},
		{Question: "Why do you want to work here?", Answer: "Connect the company's product and values to your experience and goals."},
	}}
}
