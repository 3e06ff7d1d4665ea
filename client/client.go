// Package client talks to a wordle-server over HTTP.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/bcspragu/WordleSuggest/web"
)

type Client struct {
	scheme string
	addr   string
	http   *http.Client
}

func New(scheme, addr string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %v", err)
	}

	return &Client{
		scheme: scheme,
		addr:   addr,
		http:   &http.Client{Jar: jar},
	}, nil
}

// Session is a solving session held by the server. The server identifies it
// by the cookie the client's jar picked up when it was created, so a Client
// holds at most one Session at a time.
type Session struct {
	c    *Client
	last *web.Candidates
}

// NewSession creates a session on the server.
func (c *Client) NewSession() (*Session, error) {
	req, err := http.NewRequest(http.MethodPost, c.url("/api/session"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to form request: %w", err)
	}

	var resp web.Candidates
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &Session{c: c, last: &resp}, nil
}

// Apply sends a clue to the server and returns the remaining candidates.
func (s *Session) Apply(clue string) ([]string, error) {
	body := struct {
		Clue string `json:"clue"`
	}{clue}

	req, err := http.NewRequest(http.MethodPost, s.c.url("/api/session/clue"), toBody(body))
	if err != nil {
		return nil, fmt.Errorf("failed to form request: %w", err)
	}

	var resp web.Candidates
	if err := s.c.do(req, &resp); err != nil {
		return nil, err
	}
	s.last = &resp
	return resp.Words, nil
}

// Reset makes every word a candidate again.
func (s *Session) Reset() error {
	req, err := http.NewRequest(http.MethodPost, s.c.url("/api/session/reset"), nil)
	if err != nil {
		return fmt.Errorf("failed to form request: %w", err)
	}

	var resp web.Candidates
	if err := s.c.do(req, &resp); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	s.last = &resp
	return nil
}

// Refresh loads the session's current state from the server.
func (s *Session) Refresh() error {
	req, err := http.NewRequest(http.MethodGet, s.c.url("/api/session"), nil)
	if err != nil {
		return fmt.Errorf("failed to form request: %w", err)
	}

	var resp web.Candidates
	if err := s.c.do(req, &resp); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	s.last = &resp
	return nil
}

// Count returns the number of candidates as of the last response from the
// server.
func (s *Session) Count() int {
	return s.last.Count
}

// Candidates returns the candidates as of the last response from the server.
func (s *Session) Candidates() []string {
	return s.last.Words
}

func (c *Client) url(path string) string {
	return c.scheme + "://" + c.addr + path
}

func (c *Client) do(req *http.Request, resp interface{}) error {
	httpResp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return handleError(httpResp)
	}

	if resp != nil {
		if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}

// Error is a non-200 response from the server.
type Error struct {
	StatusCode int
	// Body is the message the server sent back, without trailing whitespace.
	Body string

	err error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("[%d] failed to handle error: %v", e.StatusCode, e.err)
	}
	return fmt.Sprintf("[%d] error from server: %s", e.StatusCode, e.Body)
}

func (e *Error) Unwrap() error {
	return e.err
}

func handleError(resp *http.Response) error {
	dat, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			StatusCode: resp.StatusCode,
			err:        fmt.Errorf("failed to read error response body: %w", err),
		}
	}

	return &Error{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(dat)),
	}
}

func toBody(req interface{}) io.Reader {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return &errReader{err: err}
	}
	return &buf
}

type errReader struct {
	err error
}

func (e *errReader) Read(_ []byte) (int, error) {
	return 0, e.err
}
