// Package faults defines the error taxonomy shared by the ingestion
// pipeline. Translation and summarization failures are deliberately
// absent: those degrade to marked output instead of erroring.
package faults

import "fmt"

// ConfigurationError indicates a required external credential is missing.
// It is detected before any network call is made.
type ConfigurationError struct {
	Service string // which collaborator is unconfigured
	Key     string // the missing environment key
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured (%s not set)", e.Service, e.Key)
}

// TranscriptionError indicates the transcription backend reported a
// terminal error status for a job.
type TranscriptionError struct {
	JobID  string
	Reason string
}

func (e *TranscriptionError) Error() string {
	if e.JobID == "" {
		return fmt.Sprintf("transcription failed: %s", e.Reason)
	}
	return fmt.Sprintf("transcription job %s failed: %s", e.JobID, e.Reason)
}

// TranscriptionTimeout indicates polling exhausted its attempt ceiling
// without the job reaching a terminal status.
type TranscriptionTimeout struct {
	JobID    string
	Attempts int
}

func (e *TranscriptionTimeout) Error() string {
	return fmt.Sprintf("transcription job %s did not finish after %d polls", e.JobID, e.Attempts)
}

// StorageError wraps a persistence layer failure. Appends are
// all-or-nothing, so a StorageError never leaves partial state behind.
type StorageError struct {
	Op    string // store operation that failed
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }
