package ai

import (
	"errors"
	"strings"
)

type ChallengePayload struct {
	Question string `json:"question"`
	Solution string `json:"solution"`
}

func ValidateChallenge(c *ChallengePayload) error {
	c.Question = strings.TrimSpace(c.Question)
	c.Solution = strings.TrimSpace(c.Solution)
	if c.Question == "" {
		return errors.New("question is empty")
	}
	if c.Solution == "" {
		return errors.New("solution is empty")
	}
	return nil
}

func FallbackChallenge() ChallengePayload {
	return ChallengePayload{
		Question: "Explain the difference between process and thread.",
		Solution: "A process is an executing program with its own address space and resources. " +
			"A thread is a unit of execution inside a process; threads of the same process share its memory, " +
			"so they are cheaper to create and switch but need synchronization.",
	}
}
