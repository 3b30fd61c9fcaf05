package fetcher

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Cache downloads URLs into a local data directory, skipping files that are
// already present.
type Cache struct {
	dir  string
	http Fetcher
	ftp  Fetcher
}

// NewCache creates a Cache rooted at dir.
func NewCache(dir string, httpFetcher, ftpFetcher Fetcher) *Cache {
	return &Cache{dir: dir, http: httpFetcher, ftp: ftpFetcher}
}

// LocalPath returns the path a URL would be cached at. The file name is the
// last path segment of the URL.
func (c *Cache) LocalPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: parse url %s", rawURL)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", eris.Errorf("fetcher: cannot derive file name from %s", rawURL)
	}
	return filepath.Join(c.dir, name), nil
}

// Fetch downloads rawURL into the data directory unless it is already cached,
// and returns the local path.
func (c *Cache) Fetch(ctx context.Context, rawURL string) (string, error) {
	local, err := c.LocalPath(rawURL)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(local); err == nil {
		zap.L().Info("using cached file",
			zap.String("component", "fetcher"),
			zap.String("url", rawURL),
			zap.String("path", local))
		return local, nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "fetcher: create data dir %s", c.dir)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: parse url %s", rawURL)
	}

	var f Fetcher
	switch u.Scheme {
	case "http", "https":
		f = c.http
	case "ftp":
		f = c.ftp
	default:
		return "", eris.Errorf("fetcher: unsupported scheme %q", u.Scheme)
	}

	// Download to a temp name first so a failed transfer never poisons the
	// cache.
	tmp := local + ".part"
	n, err := f.DownloadToFile(ctx, rawURL, tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, local); err != nil {
		_ = os.Remove(tmp)
		return "", eris.Wrapf(err, "fetcher: finalize %s", local)
	}

	zap.L().Info("downloaded file",
		zap.String("component", "fetcher"),
		zap.String("url", rawURL),
		zap.String("path", local),
		zap.Int64("bytes", n))
	return local, nil
}
