package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/buckket/go-blurhash"
	"github.com/google/uuid"
	"github.com/horvbalint/recet/config"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxImageBytes caps the size of a downloaded source image.
	MaxImageBytes = 10 << 20
	// MaxImagePixels caps the decoded size of a source image.
	MaxImagePixels = 40_000_000
	maxImageSide  = 600
	jpegQuality   = 80
	hashThumbSide = 32
	hashXComp     = 4
	hashYComp     = 4
)

// ErrImageTooLarge is returned when a source image exceeds MaxImageBytes or
// MaxImagePixels.
var ErrImageTooLarge = errors.New("image exceeds size limit")

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NormalizedImage describes an image after normalization and upload.
type NormalizedImage struct {
	URL      string
	Key      string
	Blurhash string
	Width    int
	Height   int
}

// ImageService normalizes recipe images and stores them in S3
type ImageService struct {
	store     objectPutter
	bucket    string
	objectURL func(key string) string
	client    *http.Client
	logger    *slog.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config, client *http.Client, logger *slog.Logger) *ImageService {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageService{
		store:     s3Config.Client,
		bucket:    s3Config.BucketName,
		objectURL: s3Config.ObjectURL,
		client:    client,
		logger:    logger,
	}
}

// NormalizeFromURL downloads the image at imageURL, normalizes it and uploads the result.
func (s *ImageService) NormalizeFromURL(ctx context.Context, imageURL string) (*NormalizedImage, error) {
	data, err := s.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	encoded, bounds, hash, err := Normalize(data)
	if err != nil {
		return nil, err
	}

	key := config.ImageKeyPrefix + uuid.New().String() + ".jpg"
	if err := s.upload(ctx, encoded, key); err != nil {
		return nil, err
	}

	publicURL := s.objectURL(key)
	s.logger.Info("image normalized", "source", imageURL, "url", publicURL, "width", bounds.Dx(), "height", bounds.Dy())
	return &NormalizedImage{
		URL:      publicURL,
		Key:      key,
		Blurhash: hash,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

func (s *ImageService) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}
	return data, nil
}

func (s *ImageService) upload(ctx context.Context, data []byte, key string) error {
	_, err := s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// Normalize decodes data, shrinks it to fit 600x600 and re-encodes it as JPEG.
// It returns the JPEG bytes, the output bounds and a blurhash placeholder.
func Normalize(data []byte) ([]byte, image.Rectangle, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, image.Rectangle{}, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxImagePixels/cfg.Height {
		return nil, image.Rectangle{}, "", fmt.Errorf("%w: %dx%d pixels", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Rectangle{}, "", fmt.Errorf("failed to decode image: %w", err)
	}

	w, h := fitWithin(src.Bounds().Dx(), src.Bounds().Dy(), maxImageSide)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, image.Rectangle{}, "", fmt.Errorf("failed to encode %s as jpeg: %w", format, err)
	}

	tw, th := fitWithin(w, h, hashThumbSide)
	thumb := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), dst, dst.Bounds(), draw.Src, nil)
	hash, err := blurhash.Encode(hashXComp, hashYComp, thumb)
	if err != nil {
		return nil, image.Rectangle{}, "", fmt.Errorf("failed to compute blurhash: %w", err)
	}

	return buf.Bytes(), dst.Bounds(), hash, nil
}

// fitWithin scales w x h down to fit a side x side box, keeping the aspect ratio.
// Smaller images are left as they are.
func fitWithin(w, h, side int) (int, int) {
	if w <= side && h <= side {
		return max(w, 1), max(h, 1)
	}
	if w >= h {
		return side, max(h*side/w, 1)
	}
	return max(w*side/h, 1), side
}
