package photo

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"

	"github.com/DukeRupert/kyrisk/internal/metrics"
)

// MaxDimension is the longest side an image is reduced to before scoring.
const MaxDimension = 256

// Scorer yields a site-condition score in [0,1] for a stored photo.
// Darker and flatter (low contrast) photos score higher.
type Scorer struct {
	source Source
	logger *slog.Logger
}

// NewScorer creates a Scorer reading photos from source.
func NewScorer(source Source, logger *slog.Logger) *Scorer {
	return &Scorer{source: source, logger: logger}
}

// Score opens the photo at key and scores it.
func (s *Scorer) Score(ctx context.Context, key string) (float64, error) {
	score, err := s.score(ctx, key)
	switch {
	case err == nil:
		metrics.PhotoScored("success")
	case IsNotFound(err):
		metrics.PhotoScored("not_found")
	case IsInvalid(err):
		metrics.PhotoScored("invalid")
	default:
		metrics.PhotoScored("failed")
	}
	if err != nil {
		s.logger.Warn("photo scoring failed", "key", key, "error", err)
		return 0, err
	}

	s.logger.Debug("photo scored", "key", key, "score", score)
	return score, nil
}

func (s *Scorer) score(ctx context.Context, key string) (float64, error) {
	rc, info, err := s.source.Open(ctx, key)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	if info.Size > MaxPhotoSize {
		return 0, &SourceError{Op: "Score", Key: key, Err: ErrTooLarge}
	}
	if !IsScorableImageType(info.ContentType) {
		return 0, &SourceError{Op: "Score", Key: key, Err: fmt.Errorf("%w: %s", ErrUnsupported, info.ContentType)}
	}

	// Size may be unknown, so cap the read as well
	lr := &io.LimitedReader{R: rc, N: MaxPhotoSize + 1}
	img, err := imaging.Decode(lr, imaging.AutoOrientation(true))
	if err != nil {
		if lr.N <= 0 {
			return 0, &SourceError{Op: "Score", Key: key, Err: ErrTooLarge}
		}
		return 0, &SourceError{Op: "Score", Key: key, Err: fmt.Errorf("%w: %v", ErrUnsupported, err)}
	}

	return ScoreImage(img), nil
}

// ScoreImage computes the condition score of a decoded image:
// the mean of darkness (1 - mean luminance) and low contrast
// (1 - luminance stddev / 0.5), clamped to [0,1].
func ScoreImage(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Box)
	}
	gray := imaging.Grayscale(img)

	n := len(gray.Pix) / 4
	var sum, sumSq float64
	for i := 0; i < len(gray.Pix); i += 4 {
		l := float64(gray.Pix[i]) / 255
		sum += l
		sumSq += l * l
	}
	mean := sum / float64(n)
	variance := math.Max(0, sumSq/float64(n)-mean*mean)
	stddev := math.Sqrt(variance)

	darkness := 1 - mean
	lowContrast := 1 - math.Min(stddev/0.5, 1)

	return clamp01((darkness + lowContrast) / 2)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
