package interview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-interview-orchestrator/internal/events"
	"ai-interview-orchestrator/internal/models"
	judgemock "ai-interview-orchestrator/internal/service/judge/mock"
	llmmock "ai-interview-orchestrator/internal/service/llm/mock"
	"ai-interview-orchestrator/internal/service/ranking"
	"ai-interview-orchestrator/internal/store"
)

type testDeps struct {
	store   store.Store
	llm     *llmmock.Adapter
	judge   *judgemock.Adapter
	ranking *ranking.Static
}

func newTestService(t *testing.T, opts Options, deps testDeps) *Service {
	t.Helper()
	if deps.store == nil {
		deps.store = store.NewMemoryStore()
	}
	if deps.llm == nil {
		deps.llm = llmmock.New(llmmock.WithDelay(0))
	}
	if deps.judge == nil {
		deps.judge = judgemock.New()
	}
	if deps.ranking == nil {
		deps.ranking = ranking.NewStatic()
	}
	return NewService(deps.store, deps.llm, deps.judge, deps.ranking, events.New(nil), opts)
}

func testSessionConfig() models.SessionConfig {
	return models.SessionConfig{
		CandidateName:  "Ada",
		CandidateID:    "cand-1",
		JobID:          "job-1",
		JobDescription: "Backend engineer",
		RequiredSkills: []string{"Go", "Kafka"},
	}
}

func mustCreate(t *testing.T, svc *Service) string {
	t.Helper()
	id, err := svc.CreateSession(context.Background(), testSessionConfig())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return id
}

func TestStartStreamsOpeningTurn(t *testing.T) {
	svc := newTestService(t, DefaultOptions(), testDeps{})
	id := mustCreate(t, svc)

	var fragments []string
	result, err := svc.Start(context.Background(), id, func(f string) error {
		fragments = append(fragments, f)
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if result.Content != llmmock.DefaultResponses[0] {
		t.Fatalf("content = %q, want %q", result.Content, llmmock.DefaultResponses[0])
	}
	if joined := strings.Join(fragments, ""); joined != result.Content {
		t.Fatalf("fragments reassemble to %q, want %q", joined, result.Content)
	}
	if len(fragments) < 2 {
		t.Fatalf("expected multiple fragments, got %d", len(fragments))
	}
	if result.Stage != models.StageIntroduction {
		t.Fatalf("stage = %q, want %q", result.Stage, models.StageIntroduction)
	}
	if result.Finished {
		t.Fatal("opening turn should not finish the session")
	}

	state, _, err := svc.Session(id)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if n := len(state.Transcript); n != 1 {
		t.Fatalf("transcript length = %d, want 1", n)
	}
	if state.Transcript[0].Role != models.RoleInterviewer {
		t.Fatalf("first turn role = %q, want interviewer", state.Transcript[0].Role)
	}
}

func TestStageProgression(t *testing.T) {
	svc := newTestService(t, DefaultOptions(), testDeps{})
	id := mustCreate(t, svc)

	result, err := svc.Start(context.Background(), id, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	stages := []models.Stage{result.Stage}

	for i := 0; !result.Finished; i++ {
		result, err = svc.Answer(context.Background(), id, "scripted answer", nil)
		if err != nil {
			t.Fatalf("Answer %d: %v", i, err)
		}
		stages = append(stages, result.Stage)
		if i > 20 {
			t.Fatal("conversation never finished")
		}
	}

	// The final scripted response carries the termination marker, so the
	// wrapup turn itself reports finished.
	want := []models.Stage{
		models.StageIntroduction,
		models.StageWarmup,
		models.StageWarmup,
		models.StageCore,
		models.StageCore,
		models.StageCore,
		models.StageCore,
		models.StageCore,
		models.StageFinished,
	}
	if len(stages) != len(want) {
		t.Fatalf("saw %d turns (%v), want %d", len(stages), stages, len(want))
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("turn %d stage = %q, want %q (all: %v)", i, stages[i], want[i], stages)
		}
	}
	if !result.Finished {
		t.Fatal("final turn should report finished")
	}
}

func TestTerminationMarkerFinishesFromAnyStage(t *testing.T) {
	gen := llmmock.New(
		llmmock.WithDelay(0),
		llmmock.WithResponses("Thank you for your time. The interview is now concluded."),
	)
	svc := newTestService(t, DefaultOptions(), testDeps{llm: gen})
	id := mustCreate(t, svc)

	result, err := svc.Start(context.Background(), id, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !result.Finished || result.Stage != models.StageFinished {
		t.Fatalf("result = %+v, want finished", result)
	}

	// A finished session accepts no further turns.
	again, err := svc.Answer(context.Background(), id, "anything", nil)
	if err != nil {
		t.Fatalf("Answer after finish: %v", err)
	}
	if !again.Finished || again.Content != "" {
		t.Fatalf("post-finish result = %+v, want empty terminal no-op", again)
	}
}

func TestMaxTurnCapForcesFinish(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxInterviewerTurns = 2
	svc := newTestService(t, opts, testDeps{})
	id := mustCreate(t, svc)

	if _, err := svc.Start(context.Background(), id, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Answer(context.Background(), id, "first answer", nil); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	result, err := svc.Answer(context.Background(), id, "second answer", nil)
	if err != nil {
		t.Fatalf("Answer at cap: %v", err)
	}
	if !result.Finished || result.Stage != models.StageFinished {
		t.Fatalf("result = %+v, want forced finish", result)
	}
	if result.Content != "" {
		t.Fatalf("forced finish should not generate, got %q", result.Content)
	}
}

func TestUnknownSession(t *testing.T) {
	svc := newTestService(t, DefaultOptions(), testDeps{})

	if _, err := svc.Answer(context.Background(), "nope", "hi", nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Answer err = %v, want ErrSessionNotFound", err)
	}
	if _, _, err := svc.Session("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Session err = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Finalize(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Finalize err = %v, want ErrSessionNotFound", err)
	}
}

func TestConcurrentTurnRejected(t *testing.T) {
	gen := llmmock.New(llmmock.WithDelay(0))
	svc := newTestService(t, DefaultOptions(), testDeps{llm: gen})
	id := mustCreate(t, svc)

	firstFragment := make(chan struct{})
	releaseStream := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		var once bool
		_, err := svc.Start(context.Background(), id, func(string) error {
			if !once {
				once = true
				close(firstFragment)
				<-releaseStream
			}
			return nil
		})
		done <- err
	}()

	<-firstFragment
	if _, err := svc.Answer(context.Background(), id, "too soon", nil); !errors.Is(err, ErrSessionBusy) {
		t.Fatalf("concurrent Answer err = %v, want ErrSessionBusy", err)
	}
	close(releaseStream)
	if err := <-done; err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The guard is released; the next turn proceeds.
	if _, err := svc.Answer(context.Background(), id, "after", nil); err != nil {
		t.Fatalf("Answer after release: %v", err)
	}
}

func TestStreamFailureDiscardsPartialTurn(t *testing.T) {
	boom := errors.New("provider unavailable")
	gen := llmmock.New(llmmock.WithDelay(0), llmmock.WithFailure(2, boom))
	svc := newTestService(t, DefaultOptions(), testDeps{llm: gen})
	id := mustCreate(t, svc)

	var fragments int
	_, err := svc.Start(context.Background(), id, func(string) error {
		fragments++
		return nil
	})
	if !errors.Is(err, ErrUpstreamFailure) {
		t.Fatalf("Start err = %v, want ErrUpstreamFailure", err)
	}
	if fragments != 2 {
		t.Fatalf("fragments before failure = %d, want 2", fragments)
	}

	state, _, err := svc.Session(id)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if len(state.Transcript) != 0 {
		t.Fatalf("partial turn joined transcript: %+v", state.Transcript)
	}

	// The guard is released after a failed turn; only the upstream error
	// repeats, never a busy rejection.
	if _, err := svc.Start(context.Background(), id, nil); errors.Is(err, ErrSessionBusy) {
		t.Fatalf("session stuck busy after failure: %v", err)
	}
}

func TestAnswerSchedulesEvaluation(t *testing.T) {
	j := judgemock.New(models.EvaluationScores{TechnicalAccuracy: 8, DepthOfExplanation: 8, Clarity: 9, ConfidenceLevel: 9})
	svc := newTestService(t, DefaultOptions(), testDeps{judge: j})
	id := mustCreate(t, svc)

	if _, err := svc.Start(context.Background(), id, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.Answer(context.Background(), id, "my answer", nil); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	svc.tracker.wait(id)

	state, _, err := svc.Session(id)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if len(state.Evaluations) != 1 {
		t.Fatalf("evaluations = %d, want 1", len(state.Evaluations))
	}
	ev := state.Evaluations[0]
	if ev.Question != llmmock.DefaultResponses[0] {
		t.Fatalf("evaluated question = %q, want opening turn", ev.Question)
	}
	if ev.Answer != "my answer" {
		t.Fatalf("evaluated answer = %q", ev.Answer)
	}
	if ev.Scores.Clarity != 9 {
		t.Fatalf("clarity = %v, want 9", ev.Scores.Clarity)
	}
	if j.Calls() != 1 {
		t.Fatalf("judge calls = %d, want 1", j.Calls())
	}
}

func TestEmitFailureAbortsTurn(t *testing.T) {
	svc := newTestService(t, DefaultOptions(), testDeps{})
	id := mustCreate(t, svc)

	sendErr := errors.New("client gone")
	_, err := svc.Start(context.Background(), id, func(string) error { return sendErr })
	if !errors.Is(err, sendErr) {
		t.Fatalf("Start err = %v, want emit error", err)
	}

	state, _, _ := svc.Session(id)
	if len(state.Transcript) != 0 {
		t.Fatalf("aborted turn joined transcript: %+v", state.Transcript)
	}
}

func TestHistoryWindowBoundsContext(t *testing.T) {
	opts := DefaultOptions()
	opts.HistoryWindow = 4
	svc := newTestService(t, opts, testDeps{})

	state := &models.SessionState{Stage: models.StageCore}
	for i := 0; i < 10; i++ {
		role := models.RoleInterviewer
		if i%2 == 1 {
			role = models.RoleCandidate
		}
		state.Transcript = append(state.Transcript, models.Turn{Role: role, Content: "turn"})
	}
	cfg := testSessionConfig()

	messages := svc.buildContext(&cfg, state, false)
	// One system message plus the trailing window.
	if len(messages) != 5 {
		t.Fatalf("context size = %d, want 5", len(messages))
	}

	messages = svc.buildContext(&cfg, state, true)
	if got := messages[len(messages)-1].Content; got != startPrompt {
		t.Fatalf("start context should end with the opening prompt, got %q", got)
	}
}

func TestFinishedStageShortCircuitsBeforeGeneration(t *testing.T) {
	gen := llmmock.New(llmmock.WithDelay(0), llmmock.WithFailure(0, errors.New("must not be called")))
	st := store.NewMemoryStore()
	svc := newTestService(t, DefaultOptions(), testDeps{llm: gen, store: st})
	id := mustCreate(t, svc)
	if err := st.SetStage(id, models.StageFinished); err != nil {
		t.Fatalf("SetStage: %v", err)
	}

	result, err := svc.Answer(context.Background(), id, "late", nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !result.Finished {
		t.Fatal("expected terminal no-op result")
	}
}

func TestStreamTimeoutMapsToUpstreamTimeout(t *testing.T) {
	opts := DefaultOptions()
	opts.GenerationTimeout = 20 * time.Millisecond
	gen := llmmock.New(llmmock.WithDelay(50 * time.Millisecond))
	svc := newTestService(t, opts, testDeps{llm: gen})
	id := mustCreate(t, svc)

	_, err := svc.Start(context.Background(), id, nil)
	if !errors.Is(err, ErrUpstreamTimeout) && !errors.Is(err, ErrUpstreamFailure) {
		t.Fatalf("Start err = %v, want upstream timeout or failure", err)
	}
}
