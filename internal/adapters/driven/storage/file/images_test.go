package file

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func TestPNGSink_PrepareAndWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")
	sink := NewPNGSink()

	require.NoError(t, sink.Prepare(dir))
	path, err := sink.Write(dir, &domain.PageImage{Page: 1, Name: "Im0", Image: testImage()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "page_1_Im0.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), decoded.Bounds())
	r, _, _, a := decoded.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)
}

func TestPNGSink_PrepareExistingDir(t *testing.T) {
	assert.NoError(t, NewPNGSink().Prepare(t.TempDir()))
}

func TestPNGSink_PrepareFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := NewPNGSink().Prepare(filepath.Join(blocker, "images"))
	assert.ErrorIs(t, err, domain.ErrIOFailure)
}

func TestPNGSink_WriteFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := NewPNGSink().Write(missing, &domain.PageImage{Page: 1, Name: "Im0", Image: testImage()})
	assert.ErrorIs(t, err, domain.ErrIOFailure)
}
