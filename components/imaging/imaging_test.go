package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareResizesToTargetWidth(t *testing.T) {
	cases := []struct {
		name   string
		w, h   int
		height int
	}{
		{"landscape", 1200, 800, 400},
		{"portrait", 300, 900, 1800},
		{"square", 600, 600, 600},
		{"fractional", 1000, 333, 199},
		{"very wide", 6000, 1, 1},
	}
	p := New(WithTempDir(t.TempDir()), WithLogger(zaptest.NewLogger(t)))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw := &RawImage{Name: c.name + ".png", Data: encodePNG(t, newTestImage(c.w, c.h))}
			prepared, err := p.Prepare(context.Background(), raw)
			require.NoError(t, err)
			defer prepared.Close()

			assert.Equal(t, DefaultTargetWidth, prepared.Width)
			assert.Equal(t, c.height, prepared.Height)
			assert.Equal(t, "image/png", prepared.MimeType)

			stored, err := os.ReadFile(prepared.Path)
			require.NoError(t, err)
			assert.Equal(t, prepared.Data, stored)
			cfg, err := png.DecodeConfig(bytes.NewReader(stored))
			require.NoError(t, err)
			assert.Equal(t, DefaultTargetWidth, cfg.Width)
			assert.Equal(t, c.height, cfg.Height)
		})
	}
}

func TestPrepareJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, newTestImage(800, 600), nil))
	prepared, err := New(WithTempDir(t.TempDir())).Prepare(context.Background(), &RawImage{Name: "xray.jpg", Data: buf.Bytes()})
	require.NoError(t, err)
	defer prepared.Close()
	assert.Equal(t, 600, prepared.Width)
	assert.Equal(t, 450, prepared.Height)
}

func TestPrepareCustomWidth(t *testing.T) {
	prepared, err := New(WithTempDir(t.TempDir()), WithTargetWidth(300)).PrepareImage(context.Background(), newTestImage(900, 600))
	require.NoError(t, err)
	defer prepared.Close()
	assert.Equal(t, 300, prepared.Width)
	assert.Equal(t, 200, prepared.Height)
}

func TestPrepareDecodeErrors(t *testing.T) {
	p := New(WithTempDir(t.TempDir()))
	for _, data := range [][]byte{nil, []byte("definitely not an image"), []byte("%PDF-1.4 fake pdf")} {
		_, err := p.Prepare(context.Background(), &RawImage{Name: "bad", Data: data})
		assert.ErrorIs(t, err, ErrDecode)
	}
	truncated := encodePNG(t, newTestImage(50, 50))[:40]
	_, err := p.Prepare(context.Background(), &RawImage{Name: "truncated.png", Data: truncated})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPrepareInvalidDimension(t *testing.T) {
	p := New(WithTempDir(t.TempDir()))
	_, err := p.PrepareImage(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 0)))
	assert.ErrorIs(t, err, ErrInvalidDimension)
	_, err = p.PrepareImage(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 10)))
	assert.ErrorIs(t, err, ErrInvalidDimension)
	_, err = New(WithTargetWidth(0)).PrepareImage(context.Background(), newTestImage(10, 10))
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestPreparedImageUniqueAndClose(t *testing.T) {
	dir := t.TempDir()
	p := New(WithTempDir(dir))
	a, err := p.PrepareImage(context.Background(), newTestImage(20, 10))
	require.NoError(t, err)
	b, err := p.PrepareImage(context.Background(), newTestImage(20, 10))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.Path, b.Path)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	_, err = os.Stat(a.Path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(b.Path)
	assert.NoError(t, err)
	require.NoError(t, b.Close())

	attachement := b.Attachement()
	require.True(t, attachement.HasImages())
	assert.Equal(t, "image/png", attachement.Images[0].MimeType)
}

func TestPrepareCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(WithTempDir(t.TempDir())).PrepareImage(ctx, newTestImage(10, 10))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrepareRejectsOversizedSource(t *testing.T) {
	// a large flat image compresses to a small upload
	data := encodePNG(t, image.NewGray(image.Rect(0, 0, 3000, 3000)))
	require.Less(t, len(data), 200_000)

	p := New(WithTempDir(t.TempDir()), WithMaxPixels(4_000_000))
	_, err := p.Prepare(context.Background(), &RawImage{Name: "huge.png", Data: data})
	assert.ErrorIs(t, err, ErrInvalidDimension)
	assert.NotErrorIs(t, err, ErrDecode)

	_, _, err = Decode(data, 4_000_000)
	assert.ErrorIs(t, err, ErrInvalidDimension)
	img, _, err := Decode(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 3000, img.Bounds().Dx())
}

func TestPrepareRejectsOversizedTarget(t *testing.T) {
	dir := t.TempDir()
	// a 1x300 sliver would be resized to 600x180000
	data := encodePNG(t, image.NewGray(image.Rect(0, 0, 1, 300)))
	_, err := New(WithTempDir(dir)).Prepare(context.Background(), &RawImage{Name: "sliver.png", Data: data})
	assert.ErrorIs(t, err, ErrInvalidDimension)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = New(WithTempDir(dir), WithMaxPixels(600*100)).PrepareImage(context.Background(), newTestImage(10, 2))
	assert.ErrorIs(t, err, ErrInvalidDimension)

	prepared, err := New(WithTempDir(dir), WithMaxPixels(0)).PrepareImage(context.Background(), newTestImage(10, 2))
	require.NoError(t, err)
	defer prepared.Close()
	assert.Equal(t, 600, prepared.Width)
	assert.Equal(t, 120, prepared.Height)
}

func TestDefaultMaxPixels(t *testing.T) {
	assert.Equal(t, DefaultMaxPixels, New().MaxPixels())
}
