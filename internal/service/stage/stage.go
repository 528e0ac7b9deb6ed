// Package stage implements the interview stage state machine. Transitions
// are pure functions of the transcript shape and the generated content, so
// the machine itself holds no state.
package stage

import (
	"strings"

	"ai-interview-orchestrator/internal/models"
)

// Termination markers the interviewer model is instructed to emit when the
// conversation is over. Matching is case-insensitive substring search.
var terminationMarkers = []string{
	"interview is now concluded",
	"thank you for your time",
}

// Advance returns the stage to use for the next turn, given the count of
// completed interviewer turns. Stages only move forward:
//
//	introduction → warmup → core → wrapup → finished
//
// The wrapup → finished transition is content-driven (see Concluded), not
// count-driven, except for the hard cap: once interviewerTurns reaches
// maxTurns the interview is forced to finish so a model that never emits a
// termination marker cannot run a session forever. maxTurns <= 0 disables
// the cap.
func Advance(current models.Stage, interviewerTurns, maxTurns int) models.Stage {
	if maxTurns > 0 && interviewerTurns >= maxTurns {
		return models.StageFinished
	}

	switch current {
	case models.StageIntroduction:
		if interviewerTurns > 0 {
			return models.StageWarmup
		}
	case models.StageWarmup:
		if interviewerTurns > 2 {
			return models.StageCore
		}
	case models.StageCore:
		if interviewerTurns > 7 {
			return models.StageWrapup
		}
	}
	return current
}

// Concluded reports whether the generated interviewer content contains a
// termination marker, ending the interview naturally.
func Concluded(content string) bool {
	lower := strings.ToLower(content)
	for _, marker := range terminationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
