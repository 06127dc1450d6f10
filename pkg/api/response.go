package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1024 * 1024

// errorResponse is the Bridge wire error body.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Type       string `json:"type"`
}

// parseResponse decodes a successful response into result, or maps an
// error response into the tagged bridge error taxonomy.
func parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return bridge.WrapError(err, "failed to read response body")
	}

	if resp.StatusCode >= 400 {
		var wire errorResponse
		// A non-JSON error body still maps by status code alone.
		_ = json.Unmarshal(body, &wire)
		return bridge.FromResponse(resp.StatusCode, wire.Type, wire.Message)
	}

	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return bridge.WrapError(err, "failed to parse response JSON")
	}
	return nil
}
