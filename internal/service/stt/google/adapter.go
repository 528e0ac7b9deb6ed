// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

// Adapter implements stt.Transcriber using Google Cloud Speech-to-Text.
type Adapter struct {
	client       *speech.Client
	languageCode string
	sampleRateHz int32
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, languageCode string, sampleRateHz int) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		client:       c,
		languageCode: languageCode,
		sampleRateHz: int32(sampleRateHz),
	}, nil
}

// Transcribe runs a synchronous recognition over one answer recording and
// returns the joined transcript across result segments.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_WEBM_OPUS,
			SampleRateHertz: a.sampleRateHz,
			LanguageCode:    a.languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("google recognize: %w", err)
	}

	var parts []string
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		parts = append(parts, r.Alternatives[0].Transcript)
	}
	return strings.Join(parts, " "), nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}
