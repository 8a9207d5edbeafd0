// Package source fetches raw user records from the remote listing endpoint.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/UnknownOlympus/glimpse/internal/models"
)

var (
	// ErrFetchUsers reports a non-success response from the listing endpoint.
	ErrFetchUsers = errors.New("failed to fetch users")
	// ErrMalformedPayload reports a response body without a users array.
	ErrMalformedPayload = errors.New("fetched data is not in the expected format")
)

// UserSource returns one page of raw user records.
type UserSource interface {
	FetchUsers(ctx context.Context) ([]models.RawUser, error)
}

// UserLister reads the dummyjson style `/users` collection.
type UserLister struct {
	client  *http.Client
	baseURL string
	limit   int
	skip    int
}

func NewUserLister(client *http.Client, baseURL string, limit, skip int) *UserLister {
	return &UserLister{client: client, baseURL: baseURL, limit: limit, skip: skip}
}

// FetchUsers requests `{baseURL}/users?limit=..&skip=..` and decodes the users array.
func (ul *UserLister) FetchUsers(ctx context.Context) ([]models.RawUser, error) {
	endpoint, err := url.JoinPath(ul.baseURL, "users")
	if err != nil {
		return nil, fmt.Errorf("failed to parse destination URL: %w", err)
	}

	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse destination URL: %w", err)
	}
	query := reqURL.Query()
	query.Set("limit", strconv.Itoa(ul.limit))
	query.Set("skip", strconv.Itoa(ul.skip))
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", reqURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ul.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: received status code: %d %s",
			ErrFetchUsers, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var page models.UsersPage
	if err = json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if page.Users == nil {
		return nil, fmt.Errorf("%w: missing or invalid 'users' array", ErrMalformedPayload)
	}

	return page.Users, nil
}
