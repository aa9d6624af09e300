package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/xid"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/bububa/medagent/schema"
)

var (
	// ErrDecode is returned when the upload is not a supported image
	ErrDecode = errors.New("image decode failed")
	// ErrInvalidDimension is returned for images with zero width or height,
	// or whose source or resized size exceeds the pixel budget
	ErrInvalidDimension = errors.New("invalid image dimension")
)

// supported upload formats, detected from content
var supportedMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp"}

// RawImage is an uploaded image
type RawImage struct {
	Name string
	Data []byte
}

// PreparedImage is a resized PNG written to a temp file
type PreparedImage struct {
	ID       string
	Path     string
	Width    int
	Height   int
	MimeType string
	Data     []byte
	once     sync.Once
	closeErr error
}

// Attachement returns the image as a message attachement
func (p *PreparedImage) Attachement() *schema.Attachement {
	return &schema.Attachement{
		Images: []schema.Image{{MimeType: p.MimeType, Data: p.Data}},
	}
}

// Close removes the temp file, safe to call more than once
func (p *PreparedImage) Close() error {
	p.once.Do(func() {
		if err := os.Remove(p.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.closeErr = err
		}
	})
	return p.closeErr
}

// Preparer normalizes uploaded images to a fixed width
type Preparer struct {
	targetWidth int
	maxPixels   int
	tempDir     string
	logger      *zap.Logger
}

// New returns a new Preparer
func New(opts ...Option) *Preparer {
	ret := &Preparer{
		targetWidth: DefaultTargetWidth,
		maxPixels:   DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret
}

// TargetWidth returns the output width
func (p *Preparer) TargetWidth() int {
	return p.targetWidth
}

// MaxPixels returns the pixel budget of source and resized images, 0 means no limit
func (p *Preparer) MaxPixels() int {
	return p.maxPixels
}

// Decode detects the format of data and decodes it.
// The header is read first, images above maxPixels are rejected before any pixel is decoded.
func Decode(data []byte, maxPixels int) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty upload", ErrDecode)
	}
	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), supportedMimeTypes...) {
		return nil, mtype.String(), fmt.Errorf("%w: unsupported format %s", ErrDecode, mtype.String())
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, mtype.String(), fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := checkPixels(cfg.Width, cfg.Height, maxPixels); err != nil {
		return nil, mtype.String(), err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, mtype.String(), fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, mtype.String(), nil
}

// Prepare decodes the raw upload then resizes it
func (p *Preparer) Prepare(ctx context.Context, raw *RawImage) (*PreparedImage, error) {
	img, mtype, err := Decode(raw.Data, p.maxPixels)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("image decoded",
		zap.String("name", raw.Name),
		zap.String("mime", mtype),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return p.PrepareImage(ctx, img)
}

// PrepareImage resizes img to the target width keeping its aspect ratio,
// encodes it as PNG and writes it to a unique temp file.
func (p *Preparer) PrepareImage(ctx context.Context, img image.Image) (*PreparedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	width, height, err := p.targetSize(img.Bounds())
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	id := xid.New().String()
	f, err := os.CreateTemp(p.tempDir, fmt.Sprintf("medagent-%s-*.png", id))
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	p.logger.Debug("image prepared", zap.String("id", id), zap.String("path", f.Name()), zap.Int("width", width), zap.Int("height", height))
	return &PreparedImage{
		ID:       id,
		Path:     f.Name(),
		Width:    width,
		Height:   height,
		MimeType: "image/png",
		Data:     buf.Bytes(),
	}, nil
}

// targetSize computes floor(targetWidth / (w/h)) as the new height
func (p *Preparer) targetSize(bounds image.Rectangle) (int, int, error) {
	w, h := bounds.Dx(), bounds.Dy()
	if p.targetWidth <= 0 {
		return 0, 0, fmt.Errorf("%w: target width %d", ErrInvalidDimension, p.targetWidth)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, w, h)
	}
	aspect := float64(w) / float64(h)
	height := int(math.Floor(float64(p.targetWidth) / aspect))
	if height < 1 {
		height = 1
	}
	if err := checkPixels(p.targetWidth, height, p.maxPixels); err != nil {
		return 0, 0, fmt.Errorf("resized from %dx%d: %w", w, h, err)
	}
	return p.targetWidth, height, nil
}

func checkPixels(w, h, maxPixels int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, w, h)
	}
	if maxPixels > 0 && int64(w)*int64(h) > int64(maxPixels) {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidDimension, w, h, maxPixels)
	}
	return nil
}
