package worker

import (
	"time"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/rest"
)

// Job is a single query to run.
type Job struct {
	// ID identifies the job in its result. FetchAll fills it with the
	// input index when empty.
	ID string

	// Args describes the query.
	Args *rest.RequestArgs
}

// Result is the outcome of one job.
type Result struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Message is the parsed response, nil when Err is set.
	Message message.Message

	// Err is the fetch or parse error, if any.
	Err error

	// Duration is the time the query took.
	Duration time.Duration
}

// BatchResult aggregates the results of a batch of jobs.
type BatchResult struct {
	// Results holds one entry per job, in submission order for FetchAll.
	Results []*Result

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs that ran, including failures.
	CompletedJobs int

	// FailedJobs is the number of jobs that returned an error.
	FailedJobs int

	// TotalDuration is the summed query time across all jobs.
	TotalDuration time.Duration
}

// HasErrors reports whether any job in the batch failed.
func (br *BatchResult) HasErrors() bool {
	return br.FailedJobs > 0
}

// Failed returns the results of the jobs that returned an error.
func (br *BatchResult) Failed() []*Result {
	var failed []*Result
	for _, r := range br.Results {
		if r != nil && r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
