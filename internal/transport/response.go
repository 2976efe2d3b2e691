package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agentstation/sheetlink/pkg/constants"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/logging"
)

// maxResponseBytes bounds how much of a response body is read.
var maxResponseBytes int64 = constants.MaxResponseBytes

// DecodeResponse reads the body, rejects non-2xx statuses, and decodes the
// JSON payload into target. The raw body is returned in every case it was
// read in full so callers can surface it. A body larger than the limit is
// rejected rather than cut short.
func DecodeResponse(resp *http.Response, target any) ([]byte, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	if int64(len(body)) > maxResponseBytes {
		return nil, &errors.RemoteError{
			HTTPStatus: resp.StatusCode,
			Message:    fmt.Sprintf("response body exceeds %d bytes", maxResponseBytes),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, &errors.RemoteError{
			HTTPStatus: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	if target != nil {
		if err := json.Unmarshal(body, target); err != nil {
			return body, errors.NewParseError("json", "response", err.Error()+": "+errors.Excerpt(body), err)
		}
	}

	return body, nil
}
