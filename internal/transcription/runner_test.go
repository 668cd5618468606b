package transcription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethanbaker/carebridge/internal/faults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend scripts a sequence of poll results
type fakeBackend struct {
	submitErr error
	polls     []pollResult
	pollCount int
}

type pollResult struct {
	job *Job
	err error
}

func (f *fakeBackend) Submit(ctx context.Context, audioURL, languageHint string) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "job-1", nil
}

func (f *fakeBackend) Poll(ctx context.Context, jobID string) (*Job, error) {
	// Repeat the last scripted result once the script runs out
	i := f.pollCount
	if i >= len(f.polls) {
		i = len(f.polls) - 1
	}
	f.pollCount++
	return f.polls[i].job, f.polls[i].err
}

// newTestRunner shrinks the poll interval so tests run instantly
func newTestRunner(backend jobBackend, maxPolls int) *Runner {
	return &Runner{
		backend:  backend,
		interval: time.Millisecond,
		maxPolls: maxPolls,
	}
}

func TestTranscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("returns text once the job completes", func(t *testing.T) {
		backend := &fakeBackend{polls: []pollResult{
			{job: &Job{ID: "job-1", Status: StatusQueued}},
			{job: &Job{ID: "job-1", Status: StatusProcessing}},
			{job: &Job{ID: "job-1", Status: StatusCompleted, Text: "I have a headache"}},
		}}

		text, err := newTestRunner(backend, 60).Transcribe(ctx, "https://cdn.example/audio.wav", "en")
		require.NoError(t, err)
		assert.Equal(t, "I have a headache", text)
		// No further polls after the terminal status
		assert.Equal(t, 3, backend.pollCount)
	})

	t.Run("backend error status fails with the reported reason", func(t *testing.T) {
		backend := &fakeBackend{polls: []pollResult{
			{job: &Job{ID: "job-1", Status: StatusError, Error: "unsupported codec"}},
		}}

		_, err := newTestRunner(backend, 60).Transcribe(ctx, "https://cdn.example/audio.wav", "")
		require.Error(t, err)

		var trErr *faults.TranscriptionError
		require.True(t, errors.As(err, &trErr))
		assert.Equal(t, "unsupported codec", trErr.Reason)
		assert.Equal(t, 1, backend.pollCount)
	})

	t.Run("never-terminal job times out after the attempt ceiling", func(t *testing.T) {
		backend := &fakeBackend{polls: []pollResult{
			{job: &Job{ID: "job-1", Status: StatusProcessing}},
		}}

		_, err := newTestRunner(backend, 5).Transcribe(ctx, "https://cdn.example/audio.wav", "")
		require.Error(t, err)

		var timeoutErr *faults.TranscriptionTimeout
		require.True(t, errors.As(err, &timeoutErr))
		assert.Equal(t, 5, timeoutErr.Attempts)
		assert.Equal(t, 5, backend.pollCount)
	})

	t.Run("submission failure propagates without polling", func(t *testing.T) {
		backend := &fakeBackend{submitErr: errors.New("connection refused")}

		_, err := newTestRunner(backend, 60).Transcribe(ctx, "https://cdn.example/audio.wav", "")
		require.Error(t, err)
		assert.Equal(t, 0, backend.pollCount)
	})

	t.Run("transport failure mid-poll fails fast", func(t *testing.T) {
		backend := &fakeBackend{polls: []pollResult{
			{job: &Job{ID: "job-1", Status: StatusProcessing}},
			{err: errors.New("connection reset")},
		}}

		_, err := newTestRunner(backend, 60).Transcribe(ctx, "https://cdn.example/audio.wav", "")
		require.Error(t, err)
		assert.Equal(t, 2, backend.pollCount)
	})

	t.Run("caller cancellation stops the poll loop", func(t *testing.T) {
		backend := &fakeBackend{polls: []pollResult{
			{job: &Job{ID: "job-1", Status: StatusProcessing}},
		}}

		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		runner := &Runner{backend: backend, interval: time.Hour, maxPolls: 60}
		_, err := runner.Transcribe(cancelCtx, "https://cdn.example/audio.wav", "")
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, backend.pollCount)
	})
}
