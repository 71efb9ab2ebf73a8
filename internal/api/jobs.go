package api

import (
	"context"
	"net/http"

	"github.com/jonathan/careers-portal/internal/schemas"
	"github.com/jonathan/careers-portal/internal/types"
)

// ListJobs fetches one page of job requisitions.
func (c *Client) ListJobs(ctx context.Context, req types.JobListRequest) ([]types.Job, error) {
	var resp types.JobListResponse
	err := c.doJSON(ctx, request{
		op:       "job_list",
		method:   http.MethodPost,
		path:     PathJobList,
		envelope: schemas.EnvelopeJobList,
	}, req, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []types.Job{}, nil
	}
	return resp.Data, nil
}
