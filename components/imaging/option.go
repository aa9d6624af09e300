package imaging

import "go.uber.org/zap"

// DefaultTargetWidth is the width every prepared image is resized to
const DefaultTargetWidth = 600

// DefaultMaxPixels bounds both the decoded upload and the resized image
const DefaultMaxPixels = 24_000_000

type Option func(p *Preparer)

// WithTargetWidth set the output width
func WithTargetWidth(w int) Option {
	return func(p *Preparer) {
		p.targetWidth = w
	}
}

// WithMaxPixels set the pixel budget of source and resized images, 0 disables the limit
func WithMaxPixels(n int) Option {
	return func(p *Preparer) {
		p.maxPixels = n
	}
}

// WithTempDir set the directory prepared images are written to, defaults to os.TempDir
func WithTempDir(dir string) Option {
	return func(p *Preparer) {
		p.tempDir = dir
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Preparer) {
		p.logger = l
	}
}
