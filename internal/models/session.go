// Package models defines the data structures for interview sessions.
package models

import "time"

// Stage is a named phase of the interview state machine.
type Stage string

const (
	StageIntroduction Stage = "introduction"
	StageWarmup       Stage = "warmup"
	StageCore         Stage = "core"
	StageWrapup       Stage = "wrapup"
	StageFinished     Stage = "finished"
)

// IsTerminal returns true once the interview can no longer produce turns.
func (s Stage) IsTerminal() bool {
	return s == StageFinished
}

// Status tracks the lifecycle of a session record.
type Status string

const (
	StatusInProgress   Status = "In Progress"
	StatusManuallyEnded Status = "Manually Ended"
	StatusCompleted    Status = "Completed"
)

// Role identifies the speaker of a turn.
type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// Turn is one complete utterance by either party. Turns are append-only.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionConfig is the immutable interview context captured at session start.
type SessionConfig struct {
	CandidateName     string   `json:"candidateName"`
	CandidateID       string   `json:"candidateId"`
	JobID             string   `json:"jobId"`
	CandidateCV       string   `json:"candidateCv"`
	JobDescription    string   `json:"jobDescription"`
	RequiredSkills    []string `json:"requiredSkills"`
	ExtraInstructions string   `json:"extraInstructions"`
}

// EvaluationScores are the per-answer sub-scores, each in [0,10].
type EvaluationScores struct {
	TechnicalAccuracy  float64 `json:"technical_accuracy"`
	DepthOfExplanation float64 `json:"depth_of_explanation"`
	Clarity            float64 `json:"clarity"`
	ConfidenceLevel    float64 `json:"confidence_level"`
}

// Evaluation is one background-scored (question, answer) pair. The pair
// identity is authoritative; evaluations carry no ordering guarantee.
type Evaluation struct {
	Question  string           `json:"question"`
	Answer    string           `json:"answer"`
	Scores    EvaluationScores `json:"scores"`
	Timestamp time.Time        `json:"timestamp"`
}

// FinalReport is the end-of-session artifact, written exactly once.
type FinalReport struct {
	TechnicalScore     float64   `json:"technicalScore"`
	CommunicationScore float64   `json:"communicationScore"`
	ConfidenceScore    float64   `json:"confidenceScore"`
	InterviewScore     float64   `json:"interviewScore"`
	CVScore            float64   `json:"cvScore"`
	FinalScore         int       `json:"finalScore"`
	Feedback           string    `json:"feedback"`
	Recommendation     string    `json:"recommendation"`
	Status             Status    `json:"status"`
	CompletedAt        time.Time `json:"completedAt"`
}

// SessionState is the mutable live state of one interview session.
type SessionState struct {
	ID          string       `json:"id"`
	Stage       Stage        `json:"stage"`
	Status      Status       `json:"status"`
	Transcript  []Turn       `json:"transcript"`
	Evaluations []Evaluation `json:"evaluations"`
	Report      *FinalReport `json:"report,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// InterviewerTurnCount returns the number of completed interviewer turns.
func (s *SessionState) InterviewerTurnCount() int {
	n := 0
	for _, t := range s.Transcript {
		if t.Role == RoleInterviewer {
			n++
		}
	}
	return n
}

// LastInterviewerQuestion returns the most recent interviewer turn before
// the end of the transcript, or "" when no question has been asked yet.
func (s *SessionState) LastInterviewerQuestion() string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Role == RoleInterviewer {
			return s.Transcript[i].Content
		}
	}
	return ""
}
