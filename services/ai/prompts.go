package ai

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a senior technical interviewer and career coach. " +
	"You answer with strictly valid JSON only: no markdown, no comments, no prose around it."

// PlanPrompt asks for a complete preparation plan for a job description.
func PlanPrompt(jobDescription string) Request {
	prompt := fmt.Sprintf(`Analyze the following job description and build an interview preparation plan.

Job description:
"""
%s
"""

Return a JSON object with exactly these fields:
- "skills": array of strings, the key skills the role requires
- "roadmap": array of objects {"day": integer starting at 1, "topic": string, "activities": array of strings}, one object per day, days unique and ascending
- "projects": array of objects {"title": string, "description": string}, 2 or 3 mini-project ideas
- "questions": array of strings, likely interview questions
- "resources": array of objects {"title": string, "link": string}, learning resources with URLs`,
		strings.TrimSpace(jobDescription))

	return Request{Task: TaskPlan, SystemPrompt: systemPrompt, Prompt: prompt}
}

// ChallengePrompt asks for one interview question with a brief solution.
func ChallengePrompt() Request {
	prompt := `Generate a single daily coding challenge or technical interview question.
Return a JSON object with fields:
- "question": string
- "solution": string, a brief explanation of the answer`

	return Request{Task: TaskChallenge, SystemPrompt: systemPrompt, Prompt: prompt}
}

// ProjectPrompt asks for one mini-project matching the learner's constraints.
func ProjectPrompt(timeline, languages string, difficulty string) Request {
	prompt := fmt.Sprintf(`Design a practice mini-project for a developer preparing for interviews.
Timeline: %s
Languages / technologies: %s
Difficulty: %s

Return a JSON object with fields:
- "title": string
- "description": string, two or three sentences
- "techStack": string, comma separated technologies
- "steps": array of strings, ordered implementation steps`,
		orDefault(timeline, "1 week"), orDefault(languages, "any"), difficulty)

	return Request{Task: TaskProject, SystemPrompt: systemPrompt, Prompt: prompt}
}

// QuestionsPrompt asks for interview questions asked at a company for a role.
func QuestionsPrompt(company, role string) Request {
	prompt := fmt.Sprintf(`List 10 interview questions commonly asked at %s for the role %s, with concise model answers.
Return a JSON object with a single field "questions": array of objects {"question": string, "answer": string}.`,
		company, role)

	return Request{Task: TaskQuestions, SystemPrompt: systemPrompt, Prompt: prompt}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
