// internal/synchronizer/fetch.go
//
// Upstream HTTP client.
//
// Context
// -------
// The dataset is one GET against a fixed URL.  go-retryablehttp retries
// connection errors, 429s, and 5xx responses with exponential backoff; the
// wrapped http.Client carries a hard per-attempt timeout.  Whatever the
// last attempt produced is classified here:
//
//   - transport error or timeout → *FetchError (Status 0)
//   - non-2xx response           → *FetchError (Status set)
//   - body not a JSON array      → *ProcessingError (Index -1)
package synchronizer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// maxBody caps the upstream payload.  The full dataset is a few MB.
const maxBody = 64 << 20

// newClient builds the retrying client.  retries is the number of extra
// attempts after the first.
func newClient(timeout time.Duration, retries int, waitMin, waitMax time.Duration, log *zap.SugaredLogger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.HTTPClient.Timeout = timeout
	c.RetryMax = retries
	c.RetryWaitMin = waitMin
	c.RetryWaitMax = waitMax
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = leveled{log}
	return c
}

// fetch downloads the dataset and splits it into per-country entries.
func (s *Synchronizer) fetch(ctx context.Context) ([]json.RawMessage, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	// With PassthroughErrorHandler an exhausted retry budget on a 5xx hands
	// back both the last response and the policy error.
	resp, err := s.client.Do(req)
	if err != nil {
		fe := &FetchError{URL: s.url, Err: err}
		if resp != nil {
			fe.Status = resp.StatusCode
			resp.Body.Close()
		}
		return nil, fe
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: s.url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &ProcessingError{Index: -1, Err: err}
	}
	if entries == nil {
		return nil, &ProcessingError{Index: -1, Err: errors.New("dataset is null")}
	}
	return entries, nil
}

// leveled adapts zap to retryablehttp.LeveledLogger.
type leveled struct{ l *zap.SugaredLogger }

func (z leveled) Error(msg string, kv ...interface{}) { z.l.Errorw(msg, kv...) }
func (z leveled) Info(msg string, kv ...interface{})  { z.l.Infow(msg, kv...) }
func (z leveled) Debug(msg string, kv ...interface{}) { z.l.Debugw(msg, kv...) }
func (z leveled) Warn(msg string, kv ...interface{})  { z.l.Warnw(msg, kv...) }
