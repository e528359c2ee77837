// Package update implements the optional self-update mechanism. It is
// opaque to the rest of the application: Check stages a new bundle when
// one is available, Apply activates a staged bundle, and every failure
// is reported back only so the caller can log and move on. An update
// problem must never affect the birthday data paths.
package update

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-wishly/internal/config"
)

// Provider checks a fixed release URL for a new bundle. Freshness is
// tracked with the served ETag: a response matching the last applied
// ETag means no update.
type Provider struct {
	Client   *http.Client
	URL      string
	CacheDir string
	log      *slog.Logger
}

// NewProvider creates a Provider staging bundles under cacheDir.
func NewProvider(rawURL, cacheDir string) *Provider {
	return &Provider{
		Client:   &http.Client{Timeout: config.HTTPTimeout},
		URL:      rawURL,
		CacheDir: cacheDir,
		log:      slog.With(config.LogKeyComponent, config.CompUpdate),
	}
}

// Check downloads the release bundle when it differs from the last seen
// one and stages it. It returns whether an update was staged; errors are
// returned for logging but callers treat them as "no update".
func (p *Provider) Check(ctx context.Context) (bool, error) {
	u, err := url.Parse(p.URL)
	if err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTPS {
		return false, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	p.log.Info(config.MsgUpdateCheck, config.LogKeyURL, p.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrUpdateCheck, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if etag := p.lastETag(); etag != "" {
		req.Header.Set(config.HeaderIfNoneMatch, etag)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrUpdateCheck, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotModified {
		p.log.Info(config.MsgUpdateNone)
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%s: status %d", config.ErrUpdateCheck, resp.StatusCode)
	}

	etag := resp.Header.Get(config.HeaderETag)
	if etag != "" && etag == p.lastETag() {
		p.log.Info(config.MsgUpdateNone)
		return false, nil
	}

	staged := filepath.Join(p.CacheDir, config.UpdateStagedFile)
	f, err := os.OpenFile(staged, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrUpdateCheck, err)
	}

	// Cap the download to guard against a runaway response body.
	_, err = io.Copy(f, io.LimitReader(resp.Body, config.MaxHTTPResponseSize))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(staged)
		return false, fmt.Errorf("%s: %w", config.ErrUpdateCheck, err)
	}

	if etag != "" {
		_ = os.WriteFile(filepath.Join(p.CacheDir, config.UpdateETagFile), []byte(etag), config.FilePermUserRW)
	}

	p.log.Info(config.MsgUpdateFound, config.LogKeyPath, staged)
	return true, nil
}

// Apply activates the staged bundle. The active bundle is picked up on
// next start; applying without a staged bundle is an error.
func (p *Provider) Apply(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	staged := filepath.Join(p.CacheDir, config.UpdateStagedFile)
	active := filepath.Join(p.CacheDir, config.UpdateBundleFile)
	if err := os.Rename(staged, active); err != nil {
		return fmt.Errorf("%s: %w", config.ErrUpdateApply, err)
	}

	p.log.Info(config.MsgUpdateApplied, config.LogKeyPath, active)
	return nil
}

func (p *Provider) lastETag() string {
	data, err := os.ReadFile(filepath.Join(p.CacheDir, config.UpdateETagFile))
	if err != nil {
		return ""
	}
	return string(data)
}
