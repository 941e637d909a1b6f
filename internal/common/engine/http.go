package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	httpclient "records-search/internal/common/http"
)

// HTTPInvoker posts each command to "<baseURL>/<command>".
type HTTPInvoker struct {
	client  *httpclient.Client
	baseURL string
}

func NewHTTPInvoker(client *httpclient.Client, baseURL string) *HTTPInvoker {
	return &HTTPInvoker{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (h *HTTPInvoker) Invoke(ctx context.Context, command string, payload interface{}) (json.RawMessage, error) {
	resp, err := h.client.PostJSON(ctx, h.baseURL+"/"+command, payload)
	if err != nil {
		return nil, unreachable(command, err)
	}

	if !resp.OK() {
		return nil, rejected(command, rejectionMessage(resp))
	}

	// A bodiless success acknowledges with no content.
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(resp.Body), nil
}

func (h *HTTPInvoker) Close() error { return nil }

func rejectionMessage(resp *httpclient.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	if text := strings.TrimSpace(string(resp.Body)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
