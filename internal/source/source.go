// Package source resolves avatar image sources (local files, http(s)
// URLs, or the clipboard) into decoded images, caching decodes so a
// reopened dialog starts instantly.
package source

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/webp"
	"lukechampine.com/blake3"

	"github.com/freakbeast14/SafeChat/internal/clipboard"
)

// DefaultCacheSize bounds how many decoded sources are kept in memory.
const DefaultCacheSize = 8

const userAgent = "SafeChat/1.0 (+https://github.com/freakbeast14/SafeChat)"

// Loader resolves and decodes avatar sources.
type Loader struct {
	cache  *lru.Cache[string, image.Image]
	client *http.Client
}

// NewLoader creates a Loader with a bounded decode cache.
func NewLoader() (*Loader, error) {
	cache, err := lru.New[string, image.Image](DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Loader{
		cache:  cache,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Load resolves src, a file path or an http(s) URL, and decodes it.
// Decoded images are cached by source string; the cached instance is
// shared, which is safe because decoded avatars are treated as
// immutable.
func (l *Loader) Load(src string) (image.Image, error) {
	if img, ok := l.cache.Get(src); ok {
		return img, nil
	}
	var (
		img image.Image
		err error
	)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		img, err = l.loadURL(src)
	} else {
		img, err = loadFile(src)
	}
	if err != nil {
		return nil, err
	}
	l.cache.Add(src, img)
	return img, nil
}

// LoadClipboard decodes an image from the system clipboard. Clipboard
// contents are never cached.
func (l *Loader) LoadClipboard() (image.Image, error) {
	return clipboard.ReadImage()
}

func loadFile(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	// imaging covers the registered stdlib formats; fall back to an
	// explicit WebP decode before giving up.
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("open %s: %w", path, readErr)
	}
	if img, webpErr := webp.Decode(bytes.NewReader(data)); webpErr == nil {
		return img, nil
	}
	return nil, fmt.Errorf("decode %s: %w", path, err)
}

func (l *Loader) loadURL(src string) (image.Image, error) {
	req, err := http.NewRequest(http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", src, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", src, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("fetch %s: not an image (Content-Type %s)", src, ct)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	return Decode(data)
}

// Decode decodes raw image bytes, trying the registered formats first
// and WebP explicitly as a fallback.
func Decode(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("unknown or unsupported image format")
}

// Fingerprint returns a short stable content hash used to name exported
// avatar files.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
