// Copyright 2026 Shift Crypto AG
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package speculos talks to the REST control API of the Speculos emulator: automation rules, the
// screen event log, buttons and APDU exchange.
package speculos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/BitBoxSwiss/speculos-api-go/api/prompts"
	"github.com/BitBoxSwiss/speculos-api-go/util/errp"
)

// DefaultURL is where Speculos serves its API by default.
const DefaultURL = "http://127.0.0.1:5000"

// HTTPError is returned when the API answers with a non-2xx status.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

// Error implements error.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client is a client of the Speculos control API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Client. If httpClient is nil, http.DefaultClient is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// do sends a request with an optional JSON body and decodes a JSON response into response if it
// is not nil.
func (client *Client) do(ctx context.Context, method, path string, body, response interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errp.WithStack(err)
		}
		reader = bytes.NewReader(encoded)
	}
	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return errp.WithStack(err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.httpClient.Do(request)
	if err != nil {
		return errp.WithMessagef(errp.WithStack(err), "%s %s", method, path)
	}
	defer resp.Body.Close()
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errp.WithStack(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(responseBody)),
		}
	}
	if response == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, response); err != nil {
		return errp.WithMessagef(errp.WithStack(err), "could not decode response of %s %s", method, path)
	}
	return nil
}

// SetAutomation replaces the automation rules.
func (client *Client) SetAutomation(ctx context.Context, automation *Automation) error {
	return client.do(ctx, http.MethodPost, "/automation", automation, nil)
}

// ClearEvents empties the event log.
func (client *Client) ClearEvents(ctx context.Context) error {
	return client.do(ctx, http.MethodDelete, "/events", nil, nil)
}

// Events returns the event log in the order the events were drawn.
func (client *Client) Events(ctx context.Context) ([]prompts.Event, error) {
	var response struct {
		Events []prompts.Event `json:"events"`
	}
	if err := client.do(ctx, http.MethodGet, "/events", nil, &response); err != nil {
		return nil, err
	}
	return response.Events, nil
}

// ButtonSelector names a button or the simultaneous press of both.
type ButtonSelector string

const (
	// SelectLeft is the left button.
	SelectLeft ButtonSelector = "left"
	// SelectRight is the right button.
	SelectRight ButtonSelector = "right"
	// SelectBoth presses both buttons.
	SelectBoth ButtonSelector = "both"
)

// PressButton presses and releases a button.
func (client *Client) PressButton(ctx context.Context, button ButtonSelector) error {
	return client.do(ctx, http.MethodPost, "/button/"+string(button),
		map[string]string{"action": "press-and-release"}, nil)
}
