package valutatrade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// GetJSON performs an HTTP GET of addr bounded by timeout and returns the
// response body.
//
// Any failure, including a non 2xx status, is returned as a KindProvider error
// on behalf of provider. The caller is responsible for decoding the body.
func GetJSON(ctx context.Context, client *http.Client, provider, addr string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, ProviderError(provider, "invalid request", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		// The url may carry an API key, keep it out of the message.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, ProviderError(provider, "request to "+req.URL.Host+" failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ProviderError(provider, fmt.Sprintf("cannot http GET %v: %v", resp.Request.URL.Host, resp.Status), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ProviderError(provider, "cannot read response", err)
	}
	return body, nil
}
