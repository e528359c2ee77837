package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-wishly/internal/config"
)

func TestCheck_RejectsBadURLs(t *testing.T) {
	ctx := context.Background()

	_, err := NewProvider("://not a url", t.TempDir()).Check(ctx)
	assert.Error(t, err)

	_, err = NewProvider("http://example.com/bundle.zip", t.TempDir()).Check(ctx)
	assert.Error(t, err, "plain http downloads are refused")
}

// TestCheck_StagesAndHonorsETag runs the full flow against a TLS test
// server: the first check stages the bundle, the second is answered 304
// and stages nothing.
func TestCheck_StagesAndHonorsETag(t *testing.T) {
	const bundleETag = `"v2"`
	body := []byte("bundle contents")

	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
		if r.Header.Get(config.HeaderIfNoneMatch) == bundleETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set(config.HeaderETag, bundleETag)
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	cacheDir := t.TempDir()
	p := NewProvider(ts.URL, cacheDir)
	p.Client = ts.Client() // trusts the test server certificate

	found, err := p.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, found)

	staged, err := os.ReadFile(filepath.Join(cacheDir, config.UpdateStagedFile))
	require.NoError(t, err)
	assert.Equal(t, body, staged)

	found, err = p.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, found, "an unchanged ETag means no update")
}

func TestCheck_ServerError(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	p := NewProvider(ts.URL, t.TempDir())
	p.Client = ts.Client()

	_, err := p.Check(context.Background())
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	cacheDir := t.TempDir()
	p := NewProvider(config.DefaultUpdateURL, cacheDir)

	assert.Error(t, p.Apply(context.Background()), "nothing staged yet")

	staged := filepath.Join(cacheDir, config.UpdateStagedFile)
	require.NoError(t, os.WriteFile(staged, []byte("bundle"), config.FilePermUserRW))

	require.NoError(t, p.Apply(context.Background()))

	active, err := os.ReadFile(filepath.Join(cacheDir, config.UpdateBundleFile))
	require.NoError(t, err)
	assert.Equal(t, []byte("bundle"), active)

	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err), "the staged file is consumed by Apply")
}
