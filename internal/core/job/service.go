package job

import (
	"context"
	"fmt"

	"fairimport/internal/platform/api"
	rds "fairimport/internal/platform/redis"
)

type JobService struct{ redis *rds.Service }

func NewJobService(redis *rds.Service) *JobService { return &JobService{redis: redis} }

func (s *JobService) GetJobStatus(ctx context.Context, jobID string) (*Job, error) {
	var j Job
	if err := s.redis.CacheGet(ctx, key(jobID), &j); err != nil {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return &j, nil
}

func (s *JobService) InitPending(ctx context.Context, jobID string, jobType Type) error {
	return s.store(ctx, jobID, jobType, StatusPending, "", nil)
}

func (s *JobService) SetProcessing(ctx context.Context, jobID string, jobType Type) error {
	return s.store(ctx, jobID, jobType, StatusProcessing, "", nil)
}

func (s *JobService) CompleteReport(ctx context.Context, jobID string, report *api.DuplicateReport) error {
	return s.store(ctx, jobID, TypeDuplicateReport, StatusCompleted, "", report)
}

func (s *JobService) Fail(ctx context.Context, jobID string, jobType Type, errMsg string) error {
	return s.store(ctx, jobID, jobType, StatusFailed, errMsg, nil)
}

func (s *JobService) store(ctx context.Context, jobID string, jobType Type, status Status, errMsg string, report *api.DuplicateReport) error {
	var j Job
	_ = s.redis.CacheGet(ctx, key(jobID), &j)
	j.JobID = jobID
	j.Type = jobType
	j.Status = status
	j.Error = errMsg
	if report != nil {
		j.Results = JobResult{DuplicateReport: report}
	}
	if err := s.redis.CacheSet(ctx, key(jobID), j, ttl(status)); err != nil {
		return err
	}
	// Status change notification for any listeners polling via pub/sub.
	_ = s.redis.Client().Publish(ctx, key(jobID), "updated").Err()
	return nil
}

func key(id string) string { return "job:" + id }

func ttl(s Status) int {
	if s == StatusCompleted || s == StatusFailed {
		return 3600
	}
	return 600
}
