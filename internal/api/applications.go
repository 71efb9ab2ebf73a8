package api

import (
	"context"
	"net/http"

	"github.com/jonathan/careers-portal/internal/schemas"
	"github.com/jonathan/careers-portal/internal/types"
)

// CreateApplication submits an application. A status:false answer is
// returned as a KindBusiness *Error carrying the server's message.
func (c *Client) CreateApplication(ctx context.Context, token string, req types.ApplicationRequest) (*types.StatusResponse, error) {
	var resp types.StatusResponse
	err := c.doMultipart(ctx, request{
		op:       "application_create",
		method:   http.MethodPost,
		path:     PathApplicationCreate,
		token:    token,
		envelope: schemas.EnvelopeStatus,
	}, req.Fields(), []file{
		{field: "image_url", upload: req.Form.Image},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
