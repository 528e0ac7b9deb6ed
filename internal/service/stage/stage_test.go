package stage

import (
	"testing"

	"ai-interview-orchestrator/internal/models"
)

func TestAdvance_Progression(t *testing.T) {
	cases := []struct {
		name    string
		current models.Stage
		turns   int
		want    models.Stage
	}{
		{"introduction holds before first turn", models.StageIntroduction, 0, models.StageIntroduction},
		{"introduction to warmup after first turn", models.StageIntroduction, 1, models.StageWarmup},
		{"warmup holds at two turns", models.StageWarmup, 2, models.StageWarmup},
		{"warmup to core past two turns", models.StageWarmup, 3, models.StageCore},
		{"core holds at seven turns", models.StageCore, 7, models.StageCore},
		{"core to wrapup past seven turns", models.StageCore, 8, models.StageWrapup},
		{"wrapup never advances on count alone", models.StageWrapup, 12, models.StageWrapup},
		{"finished is terminal", models.StageFinished, 20, models.StageFinished},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Advance(tc.current, tc.turns, 0)
			if got != tc.want {
				t.Errorf("Advance(%s, %d) = %s, want %s", tc.current, tc.turns, got, tc.want)
			}
		})
	}
}

// Replaying a full session must walk the stages strictly forward.
func TestAdvance_NeverRegresses(t *testing.T) {
	current := models.StageIntroduction
	order := map[models.Stage]int{
		models.StageIntroduction: 0,
		models.StageWarmup:       1,
		models.StageCore:         2,
		models.StageWrapup:       3,
		models.StageFinished:     4,
	}

	for turns := 0; turns < 30; turns++ {
		next := Advance(current, turns, 0)
		if order[next] < order[current] {
			t.Fatalf("stage regressed: %s -> %s at %d turns", current, next, turns)
		}
		current = next
	}
	if current != models.StageWrapup {
		t.Errorf("without a termination marker or cap the session should rest in wrapup, got %s", current)
	}
}

func TestAdvance_MaxTurnCapForcesFinish(t *testing.T) {
	got := Advance(models.StageWrapup, 15, 15)
	if got != models.StageFinished {
		t.Errorf("cap reached: want finished, got %s", got)
	}

	// The cap applies from any stage; a stalled core session finishes too.
	got = Advance(models.StageCore, 15, 15)
	if got != models.StageFinished {
		t.Errorf("cap reached in core: want finished, got %s", got)
	}
}

func TestConcluded(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"The interview is now concluded.", true},
		{"Thank you for your time. Goodbye!", true},
		{"THANK YOU FOR YOUR TIME", true},
		{"Tell me about a project you are proud of.", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := Concluded(tc.content); got != tc.want {
			t.Errorf("Concluded(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}
