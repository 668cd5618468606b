package transcription

import (
	"context"
	"time"

	"github.com/ethanbaker/carebridge/internal/faults"
	"github.com/ethanbaker/carebridge/pkg/utils"
)

const (
	// pollInterval is the fixed delay between status polls
	pollInterval = 2 * time.Second

	// maxPollAttempts bounds the whole job at roughly two minutes
	maxPollAttempts = 60
)

// jobBackend is the slice of Client the runner needs; tests fake it
type jobBackend interface {
	Submit(ctx context.Context, audioURL, languageHint string) (string, error)
	Poll(ctx context.Context, jobID string) (*Job, error)
}

// Runner drives a transcription job from submission to a terminal state
type Runner struct {
	backend  jobBackend
	interval time.Duration
	maxPolls int
}

// NewRunner creates a runner backed by the AssemblyAI client
func NewRunner(cfg *utils.Config) *Runner {
	return &Runner{
		backend:  NewClient(cfg),
		interval: pollInterval,
		maxPolls: maxPollAttempts,
	}
}

// Transcribe submits the audio reference and polls until the job
// completes, errors, or the attempt ceiling is reached.
//
// A transport failure on the submission or any poll propagates
// immediately: it is distinguishable from "still processing" and more
// polling will not fix it. Caller cancellation is honored between polls
// without leaking the wait timer.
func (r *Runner) Transcribe(ctx context.Context, audioURL, languageHint string) (string, error) {
	jobID, err := r.backend.Submit(ctx, audioURL, languageHint)
	if err != nil {
		return "", err
	}

	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	for attempt := 0; attempt < r.maxPolls; attempt++ {
		job, err := r.backend.Poll(ctx, jobID)
		if err != nil {
			return "", err
		}

		switch job.Status {
		case StatusCompleted:
			return job.Text, nil
		case StatusError:
			return "", &faults.TranscriptionError{JobID: jobID, Reason: job.Error}
		}

		// Still queued or processing; wait out the interval unless the
		// caller gives up first
		timer.Reset(r.interval)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return "", &faults.TranscriptionTimeout{JobID: jobID, Attempts: r.maxPolls}
}
