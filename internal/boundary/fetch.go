package boundary

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// census.gov tolerates modest request rates; one concurrent download
// with a small burst is plenty for a dataset fetched once per run.
var fetchLimiter = rate.NewLimiter(2, 2)

// fetch GETs url with a bounded wait and returns the body bytes.
func fetch(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := fetchLimiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "boundary: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: fetch %s", url)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("boundary: fetch %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read body from %s", url)
	}
	return data, nil
}

// fetchToFile downloads url to dest, skipping the download when a
// non-empty file already exists. Construction must be idempotent
// within a run; the on-disk cache also spans runs.
func fetchToFile(ctx context.Context, client *http.Client, url, dest string, timeout time.Duration) error {
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		zap.L().Debug("boundary: cached download exists, skipping fetch",
			zap.String("path", dest))
		return nil
	}

	data, err := fetch(ctx, client, url, timeout)
	if err != nil {
		return err
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return eris.Wrapf(err, "boundary: write %s", dest)
	}
	return nil
}
