// Package gemini provides a Gemini-backed answer judge.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"ai-interview-orchestrator/internal/models"
	"ai-interview-orchestrator/internal/service/judge"
)

const evaluationPrompt = `You are a strict AI technical interview evaluator.

Evaluate the candidate answer objectively.

Do NOT be generous.
Do NOT be overly harsh.
Base evaluation strictly on correctness and depth.

Return ONLY valid JSON.
No explanation.
No markdown.

Scoring (0-10 scale):

- technical_accuracy
- depth_of_explanation
- clarity
- confidence_level

Return format:

{
  "technical_accuracy": number,
  "depth_of_explanation": number,
  "clarity": number,
  "confidence_level": number
}

Question:
%s

Candidate Answer:
%s
`

// Adapter implements judge.Judge using the Gemini API in JSON mode.
type Adapter struct {
	client *genai.Client
	model  string
}

// New creates a Gemini judge on a shared client.
func New(client *genai.Client, model string) *Adapter {
	return &Adapter{client: client, model: model}
}

// Evaluate scores one (question, answer) pair.
func (a *Adapter) Evaluate(ctx context.Context, question, answer string) (models.EvaluationScores, error) {
	var scores models.EvaluationScores

	prompt := fmt.Sprintf(evaluationPrompt, question, answer)
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return scores, fmt.Errorf("gemini evaluate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if err := json.Unmarshal([]byte(text), &scores); err != nil {
		return scores, fmt.Errorf("gemini evaluate: malformed scores %q: %w", text, err)
	}

	return judge.Clamp(scores), nil
}
