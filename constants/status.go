package constants

// JobStatus is the canonical status for rows in extraction_jobs.
type JobStatus string

// Stable values (store these exact strings in the journal).
const (
	JobStatusQueued    JobStatus = "QUEUED"    // queued for processing
	JobStatusRunning   JobStatus = "RUNNING"   // in progress
	JobStatusSucceeded JobStatus = "SUCCEEDED" // text extracted (possibly degraded)
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure
)
