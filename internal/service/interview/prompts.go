package interview

import (
	"fmt"
	"strings"

	"ai-interview-orchestrator/internal/models"
)

const interviewerSystemPrompt = `You are an AI technical interviewer.

You are conducting an interview for the following job:

JOB DESCRIPTION:
%s

REQUIRED SKILLS:
%s

RECRUITER EXTRA INSTRUCTIONS:
%s

Candidate Details:
Name: %s

Candidate CV (Structured JSON):
%s

Rules:
- Ask role-specific questions.
- Prioritize required skills.
- Ask about projects from CV.
- Adapt based on answers.
- Mix technical + behavioral questions.
- Maintain professional tone.
- Do not provide evaluation to the candidate.
- Ask ONE question at a time.
- Based on the candidate's last response, either dig deeper or move to the next topic.
- Keep responses conversational but focused, avoid long monologues.
- Do NOT output markdown or code blocks unless explicitly asked, as this is a voice interview. Speak naturally.
- If the candidate asks to end the interview early, you MUST give a brief, polite warning about their evaluation. If they confirm they want to end it, immediately conclude the interview.
- When the interview is officially over, say "Thank you for your time. The interview is now concluded."


Focus for %s: %s
`

var stageInstructions = map[models.Stage]string{
	models.StageIntroduction: "Enthusiastically welcome the candidate by name to the interview for their job role. Introduce yourself as the interviewer. Do NOT ask them to introduce themselves or talk about their background yet. Simply explain the format and ask if they are ready to begin.",
	models.StageWarmup:       "Ask a broad question like 'Tell me about yourself' or ask about their background from the CV. Keep it light.",
	models.StageCore:         "Ask specific technical questions related to the required skills and job description. Challenge their assumptions. Test depth of knowledge. Mix in 1-2 behavioral questions.",
	models.StageWrapup:       "Ask if they have any questions for you. Then thank them and close the interview.",
}

// startPrompt is the synthetic user message that makes the model open the
// interview; it is never appended to the transcript.
const startPrompt = "Please initiate the interview. Welcome me and follow your introduction instructions."

const feedbackReportPrompt = `You are a professional hiring evaluation system.

Generate a structured candidate evaluation report.

Be objective, professional, and concise.
Maximum 250 words.
Plain text only.
No markdown formatting.

Candidate Scores:

CV Score: %.1f
Technical Interview Score: %.1f
Communication Score: %.1f
Confidence Score: %.1f
Final Overall Score: %d
Interview Status: %s

Generate:

1. Strengths (bullet points)
2. Weaknesses (bullet points)
3. Areas for Improvement (bullet points)
4. Hiring Recommendation:
   - Strong Hire
   - Hire
   - Consider
   - Reject
`

// systemPrompt renders the interviewer instruction header for one turn.
func systemPrompt(cfg *models.SessionConfig, stage models.Stage) string {
	skills := "Not specified"
	if len(cfg.RequiredSkills) > 0 {
		skills = strings.Join(cfg.RequiredSkills, ", ")
	}
	cv := cfg.CandidateCV
	if cv == "" {
		cv = "{}"
	}
	return fmt.Sprintf(interviewerSystemPrompt,
		cfg.JobDescription,
		skills,
		cfg.ExtraInstructions,
		cfg.CandidateName,
		cv,
		stage,
		stageInstructions[stage],
	)
}

// fallbackFeedback is used when the narrative generation call fails; the
// numeric scores are still persisted.
func fallbackFeedback(report *models.FinalReport) string {
	return fmt.Sprintf(
		"Automated feedback generation was unavailable for this session. "+
			"Numeric results: technical %.1f, communication %.1f, confidence %.1f, "+
			"interview %.1f, CV %.1f, final %d. Recommendation: %s.",
		report.TechnicalScore, report.CommunicationScore, report.ConfidenceScore,
		report.InterviewScore, report.CVScore, report.FinalScore, report.Recommendation,
	)
}
