package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.Gray{Y: uint8((x + y) % 256)}
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, "scan.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestEnhanceUpscalesSmallImage(t *testing.T) {
	src := writePNG(t, t.TempDir(), 400, 300)
	workDir := t.TempDir()
	e := NewEnhancer(1200, nil)

	out := e.Enhance(src, workDir)

	require.NotEqual(t, src, out)
	assert.Equal(t, workDir, filepath.Dir(out))
	assert.Equal(t, "scan.enhanced.png", filepath.Base(out))

	w, h, err := decodeDimensions(out)
	require.NoError(t, err)
	// smaller dimension scaled to the target
	assert.InDelta(t, 2000, h, 2)
	assert.Greater(t, w, 2000)
}

func TestEnhanceSkipsLargeImage(t *testing.T) {
	src := writePNG(t, t.TempDir(), 1600, 1400)
	e := NewEnhancer(1200, nil)

	out := e.Enhance(src, t.TempDir())
	assert.Equal(t, src, out)
}

func TestEnhanceUnreadableImageFallsThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))

	e := NewEnhancer(1200, nil)
	assert.Equal(t, path, e.Enhance(path, dir))
}

func TestEnhancedPathPlacement(t *testing.T) {
	assert.Equal(t, "/work/page-1.enhanced.png", enhancedPath("/pages/page-1.png", "/work"))
	assert.Equal(t, "/pages/page-1.enhanced.png", enhancedPath("/pages/page-1.png", ""))
}
