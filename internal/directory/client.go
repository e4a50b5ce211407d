package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Employee is one record from the employee-directory GraphQL API.
type Employee struct {
	Name   string `json:"name"`
	HRCID  int64  `json:"hrcId"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Client queries the employee directory.
type Client struct {
	url    string
	token  string
	client *http.Client
}

// NewClient creates a directory client.
func NewClient(url, token string) *Client {
	return &Client{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

const employeesQuery = `{ employees { name hrcId email avatar } }`

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlResponse struct {
	Data struct {
		Employees []Employee `json:"employees"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Employees fetches the full employee list.
func (c *Client) Employees(ctx context.Context) ([]Employee, error) {
	body, err := json.Marshal(graphqlRequest{Query: employeesQuery})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "token "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}
	var parsed graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("directory query error: %s", parsed.Errors[0].Message)
	}
	return parsed.Data.Employees, nil
}
