// Package hardcover fetches reading data from the Hardcover GraphQL API.
package hardcover

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultURL is the Hardcover GraphQL endpoint.
const DefaultURL = "https://api.hardcover.app/v1/graphql"

// DefaultTimeout bounds the single outbound request. There is no retry
// anywhere: a failed run is re-run on the next schedule tick.
const DefaultTimeout = 30 * time.Second

// readingQuery fetches the profile, the active goal and both book sets
// in one request. Notes on the schema:
//   - 'currently_reading' is not a users field; it's an alias for
//     user_books with status_id=2 (status_id=3 is finished)
//   - user_book_reads.updated_at and book.genres do not exist in this
//     schema and must not be queried
const readingQuery = `
query GetReadingData {
  me {
    username
    name
    image { url }

    goals(where: { state: { _eq: "active" } }, limit: 1) {
      goal
      progress
    }

    currently_reading: user_books(
      where: { status_id: { _eq: 2 } }
      order_by: { updated_at: desc }
    ) {
      id
      updated_at
      rating
      last_read_date
      user_book_reads {
        started_at
        progress
        finished_at
      }
      book {
        title
        slug
        pages
        image { url }
        contributions { author { name } }
      }
    }

    recently_read: user_books(
      where: { status_id: { _eq: 3 } }
      order_by: { last_read_date: desc }
    ) {
      id
      updated_at
      rating
      has_review
      last_read_date
      user_book_reads {
        started_at
        progress
        finished_at
      }
      book {
        title
        slug
        pages
        image { url }
        contributions { author { name } }
      }
    }
  }
}
`

// TransportError reports a non-2xx HTTP response from the API.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("hardcover: unexpected status %d: %s", e.StatusCode, e.Body)
}

// GraphQLError is one entry of a GraphQL error payload.
type GraphQLError struct {
	Message string `json:"message"`
}

// QueryError reports a GraphQL-level error payload (HTTP succeeded but
// the server rejected the query).
type QueryError struct {
	Errors []GraphQLError
}

func (e *QueryError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return "hardcover: graphql errors: " + strings.Join(msgs, "; ")
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		Me json.RawMessage `json:"me"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// Client issues authenticated requests against the Hardcover API.
type Client struct {
	http *resty.Client
	url  string
}

// NewClient creates a Client with the given bearer token.
func NewClient(token string) *Client {
	rc := resty.New().
		SetTimeout(DefaultTimeout).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http: rc,
		url:  DefaultURL,
	}
}

// Fetch issues the reading-data query. Exactly one request is made;
// transport failures and GraphQL error payloads abort the run.
func (c *Client) Fetch(ctx context.Context) (*Payload, error) {
	var out graphQLResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(graphQLRequest{Query: readingQuery, Variables: map[string]any{}}).
		SetResult(&out).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("hardcover: request failed: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode(),
			Body:       bodySnippet(resp.Body()),
		}
	}

	if len(out.Errors) > 0 {
		return nil, &QueryError{Errors: out.Errors}
	}

	return &Payload{Me: out.Data.Me}, nil
}

// bodySnippet trims a response body down to something loggable.
func bodySnippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
