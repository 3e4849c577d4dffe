package apiclient

import (
	"context"
	"net/http"

	"blogview/models"
)

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	var resp models.UserResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/user/login", req, &resp); err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var resp models.UserResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/user/register", req, &resp); err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}
