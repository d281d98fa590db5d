package schedule

import "context"

const (
	JobCleanupDownloadTokens  = "cleanup-download-tokens"
	JobExpireDeletionRequests = "expire-deletion-requests"
)

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

// NewFuncJob adapts a plain function to Job.
func NewFuncJob(name string, fn func(ctx context.Context) error) Job {
	return &funcJob{name: name, fn: fn}
}

func (j *funcJob) Name() string {
	return j.name
}

func (j *funcJob) Run(ctx context.Context) error {
	return j.fn(ctx)
}
