package mock

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-interview-orchestrator/internal/service/llm"
)

func collect(t *testing.T, ch <-chan llm.Chunk) (string, error) {
	t.Helper()
	var sb strings.Builder
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return sb.String(), nil
			}
			if chunk.Err != nil {
				return sb.String(), chunk.Err
			}
			sb.WriteString(chunk.Text)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for stream")
		}
	}
}

func TestStream_EmitsScriptedResponse(t *testing.T) {
	a := New(WithResponses("Hello there candidate"), WithDelay(0))

	ch, err := a.Stream(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	got, streamErr := collect(t, ch)
	if streamErr != nil {
		t.Fatalf("unexpected stream error: %v", streamErr)
	}
	if got != "Hello there candidate" {
		t.Errorf("reassembled stream = %q", got)
	}
}

func TestStream_MultipleFragments(t *testing.T) {
	a := New(WithResponses("one two three four"), WithDelay(0))

	ch, _ := a.Stream(context.Background(), nil)
	count := 0
	for chunk := range ch {
		if chunk.Err != nil {
			t.Fatalf("unexpected error: %v", chunk.Err)
		}
		count++
	}
	if count < 2 {
		t.Errorf("expected the response to arrive in multiple fragments, got %d", count)
	}
}

func TestStream_FailureInjection(t *testing.T) {
	boom := errors.New("upstream exploded")
	a := New(WithResponses("one two three four five"), WithDelay(0), WithFailure(2, boom))

	ch, _ := a.Stream(context.Background(), nil)
	got, err := collect(t, ch)
	if !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if got == "" {
		t.Error("fragments produced before the failure should still arrive")
	}
}

func TestStream_RespondsInOrder(t *testing.T) {
	a := New(WithResponses("first", "second"), WithDelay(0))

	ch, _ := a.Stream(context.Background(), nil)
	first, _ := collect(t, ch)
	ch, _ = a.Stream(context.Background(), nil)
	second, _ := collect(t, ch)

	if first != "first" || second != "second" {
		t.Errorf("responses out of order: %q, %q", first, second)
	}
}

func TestComplete(t *testing.T) {
	a := New(WithResponses("a narrative report"))
	got, err := a.Complete(context.Background(), "write a report")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "a narrative report" {
		t.Errorf("Complete = %q", got)
	}
}

func TestStream_ContextCancellation(t *testing.T) {
	a := New(WithDelay(50 * time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	ch, _ := a.Stream(ctx, nil)
	// Read one fragment, then cancel; the producer goroutine must stop and
	// close the channel instead of blocking forever.
	<-ch
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream did not terminate after cancellation")
		}
	}
}
