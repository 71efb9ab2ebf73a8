package api

import (
	"context"
	"net/http"

	"github.com/jonathan/careers-portal/internal/schemas"
	"github.com/jonathan/careers-portal/internal/types"
)

// Register creates a candidate account.
func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (*types.StatusResponse, error) {
	var resp types.StatusResponse
	err := c.doJSON(ctx, request{
		op:       "candidate_create",
		method:   http.MethodPost,
		path:     PathCandidateCreate,
		envelope: schemas.EnvelopeStatus,
	}, req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for an API token.
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (*types.LoginResponse, error) {
	var resp types.LoginResponse
	err := c.doJSON(ctx, request{
		op:       "candidate_login",
		method:   http.MethodPost,
		path:     PathCandidateLogin,
		envelope: schemas.EnvelopeLogin,
	}, req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile fetches the profile of the candidate owning token.
// Fields the API stores as "null" come back empty.
func (c *Client) GetProfile(ctx context.Context, token string) (*types.Profile, error) {
	var resp types.ProfileResponse
	err := c.doJSON(ctx, request{
		op:       "candidate_get",
		method:   http.MethodGet,
		path:     PathCandidateGet,
		token:    token,
		envelope: schemas.EnvelopeProfile,
	}, nil, &resp)
	if err != nil {
		return nil, err
	}
	profile := resp.Data.Clean()
	return &profile, nil
}

// UpdateProfile sends the non-empty fields of u and any attached files.
func (c *Client) UpdateProfile(ctx context.Context, token string, u types.ProfileUpdate) (*types.StatusResponse, error) {
	var resp types.StatusResponse
	err := c.doMultipart(ctx, request{
		op:       "candidate_update",
		method:   http.MethodPut,
		path:     PathCandidateUpdate,
		token:    token,
		envelope: schemas.EnvelopeStatus,
	}, u.Fields(), []file{
		{field: "profile_img_url", upload: u.ProfileImage},
		{field: "resume_file_url", upload: u.Resume},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
