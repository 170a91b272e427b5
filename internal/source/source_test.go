package source

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 3), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 320, 200), 0o644))

	l, err := NewLoader()
	require.NoError(t, err)

	img, err := l.Load(path)
	require.NoError(t, err)
	require.Equal(t, 320, img.Bounds().Dx())
	require.Equal(t, 200, img.Bounds().Dy())
}

func TestLoadCachesDecodedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 64, 64), 0o644))

	l, err := NewLoader()
	require.NoError(t, err)

	first, err := l.Load(path)
	require.NoError(t, err)

	// A second load must be served from the cache even after the file
	// disappears.
	require.NoError(t, os.Remove(path))
	second, err := l.Load(path)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestLoadURL(t *testing.T) {
	data := pngBytes(t, 48, 96)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l, err := NewLoader()
	require.NoError(t, err)

	img, err := l.Load(srv.URL + "/avatar.png")
	require.NoError(t, err)
	require.Equal(t, 48, img.Bounds().Dx())
	require.Equal(t, 96, img.Bounds().Dy())
}

func TestLoadURLRejectsNonImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	l, err := NewLoader()
	require.NoError(t, err)

	_, err = l.Load(srv.URL)
	require.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	require.Error(t, err)
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint([]byte("avatar-bytes"))
	b := Fingerprint([]byte("avatar-bytes"))
	require.Equal(t, a, b)
	require.Len(t, a, 16)
	require.NotEqual(t, a, Fingerprint([]byte("other-bytes")))
}
