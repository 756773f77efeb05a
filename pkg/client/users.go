package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "campushub/pkg/errors"
	"campushub/pkg/model"
)

// UserClient talks to the users service. The courses service uses it to
// resolve student records during registration.
type UserClient struct {
	httpClient *HttpClient
}

func NewUserClient(baseUrl string) *UserClient {
	return &UserClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

// WaitForHealthy polls the users service health endpoint until it
// responds or maxWait elapses.
func (c *UserClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *UserClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/users", body)
}

func (c *UserClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/users?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *UserClient) GetByUserID(ctx context.Context, userID string) (*Response, error) {
	path := "/api/v1/users/id/" + url.PathEscape(userID)
	return c.httpClient.GET(ctx, path)
}

func (c *UserClient) UpdateRole(ctx context.Context, userID string, body any) (*Response, error) {
	path := "/api/v1/users/id/" + url.PathEscape(userID) + "/role"
	return c.httpClient.PATCH(ctx, path, body)
}

func (c *UserClient) Delete(ctx context.Context, userID string) (*Response, error) {
	path := "/api/v1/users/id/" + url.PathEscape(userID)
	return c.httpClient.DELETE(ctx, path)
}

// GetUser fetches and decodes a single user, mapping a 404 from the
// users service to a NotFound error.
func (c *UserClient) GetUser(ctx context.Context, userID string) (*model.User, error) {
	resp, err := c.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Unavailable("users")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, apperrors.NotFoundWithID("user", userID)
	default:
		return nil, apperrors.Internal(
			fmt.Sprintf("users service returned status %d: %s", resp.StatusCode, GetErrorMessage(resp)), nil,
		)
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("decoding users service response: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(wrapper.Data, &user); err != nil {
		return nil, fmt.Errorf("decoding user payload: %w", err)
	}
	return &user, nil
}
