package detection

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"liyu1981.xyz/ai-security-service/pkg/common"
)

type MediaKind string

const (
	MediaKindVideo    MediaKind = "video"
	MediaKindImage    MediaKind = "image"
	MediaKindDocument MediaKind = "document"
)

type UploadStatus string

const (
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusCompleted  UploadStatus = "completed"
	UploadStatusError      UploadStatus = "error"
)

const (
	MaxVideoFrames       = 20
	DefaultVideoDuration = 10 * time.Second
	DefaultVideoWidth    = 640
	DefaultVideoHeight   = 480
	MaxFrameWidth        = 4096
	MaxFrameHeight       = 4096

	DocumentCategory    = "document_analysis"
	DocumentLabel       = "Suspicious keywords detected in document"
	DocumentConfidence  = 0.75
	DocumentMaxPageHint = 10
)

var mediaKinds = []struct {
	mime string
	kind MediaKind
}{
	{"video/mp4", MediaKindVideo},
	{"video/x-msvideo", MediaKindVideo},
	{"video/quicktime", MediaKindVideo},
	{"video/x-ms-wmv", MediaKindVideo},
	{"video/x-ms-asf", MediaKindVideo},
	{"application/pdf", MediaKindDocument},
	{"image/jpeg", MediaKindImage},
	{"image/png", MediaKindImage},
	{"image/gif", MediaKindImage},
	{"image/bmp", MediaKindImage},
}

// Classify sniffs the content type of an upload.
func Classify(data []byte) (string, MediaKind, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("%w: empty upload", ErrUnsupportedMedia)
	}
	mt := mimetype.Detect(data)
	for _, k := range mediaKinds {
		if mt.Is(k.mime) {
			return k.mime, k.kind, nil
		}
	}
	return mt.String(), "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, mt.String())
}

type UploadRequest struct {
	Name     string
	Data     []byte
	Duration time.Duration
	Width    int
	Height   int
}

type UploadResult struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Size           int64        `json:"size"`
	MediaType      string       `json:"media_type"`
	Kind           MediaKind    `json:"kind"`
	Status         UploadStatus `json:"status"`
	FramesAnalyzed int          `json:"frames_analyzed"`
	Events         []Event      `json:"events"`
	Error          string       `json:"error,omitempty"`

	Annotated *image.RGBA `json:"-"`
}

// Analyzer fabricates detections for uploaded media. Videos are never decoded: frames are blank
// rasters at the declared size, sampled at most MaxVideoFrames times over the declared duration.
type Analyzer struct {
	detector DetectionSource
	renderer *Renderer
	clock    Clock

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewAnalyzer(detector DetectionSource, renderer *Renderer, clock Clock, rnd *rand.Rand) *Analyzer {
	if clock == nil {
		clock = RealClock{}
	}
	if renderer == nil {
		renderer = &Renderer{}
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Analyzer{detector: detector, renderer: renderer, clock: clock, rnd: rnd}
}

// CheckFrameSize rejects rasters larger than MaxFrameWidth x MaxFrameHeight.
func CheckFrameSize(width, height int) error {
	if width > MaxFrameWidth || height > MaxFrameHeight {
		return fmt.Errorf("%w: %dx%d, limit is %dx%d", ErrFrameTooLarge, width, height, MaxFrameWidth, MaxFrameHeight)
	}
	return nil
}

// VideoSampleOffsets lists the frame offsets sampled for a video of the given duration.
func VideoSampleOffsets(duration time.Duration) []time.Duration {
	if duration <= 0 {
		return nil
	}
	interval := max(time.Second, duration/MaxVideoFrames)
	var offsets []time.Duration
	for t := time.Duration(0); t < duration && len(offsets) < MaxVideoFrames; t += interval {
		offsets = append(offsets, t)
	}
	return offsets
}

// Analyze classifies and processes one upload. progress, when set, receives 0..100 as frames are
// processed. A failed analysis still returns a result with status error.
func (a *Analyzer) Analyze(ctx context.Context, req UploadRequest, progress func(pct int)) (*UploadResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameDetection,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryUpload),
	)

	result := &UploadResult{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Size:   int64(len(req.Data)),
		Status: UploadStatusProcessing,
	}
	if progress == nil {
		progress = func(int) {}
	}

	mediaType, kind, err := Classify(req.Data)
	result.MediaType = mediaType
	result.Kind = kind
	if err != nil {
		return a.fail(logger, result, err)
	}

	logger.Info("Analyzing upload",
		zap.String("id", result.ID),
		zap.String("name", req.Name),
		zap.String("media_type", mediaType),
		zap.Int64("size", result.Size),
	)

	switch kind {
	case MediaKindVideo:
		err = a.analyzeVideo(ctx, req, result, progress)
	case MediaKindImage:
		err = a.analyzeImage(ctx, req, result, progress)
	case MediaKindDocument:
		a.analyzeDocument(req, result, progress)
	}
	if err != nil {
		return a.fail(logger, result, err)
	}

	result.Status = UploadStatusCompleted
	logger.Info("Upload analyzed",
		zap.String("id", result.ID),
		zap.Int("frames", result.FramesAnalyzed),
		zap.Int("events", len(result.Events)),
	)
	return result, nil
}

func (a *Analyzer) fail(logger *zap.Logger, result *UploadResult, err error) (*UploadResult, error) {
	result.Status = UploadStatusError
	result.Error = err.Error()
	logger.Warn("Upload analysis failed", zap.String("id", result.ID), zap.Error(err))
	return result, err
}

func (a *Analyzer) analyzeVideo(ctx context.Context, req UploadRequest, result *UploadResult, progress func(int)) error {
	duration := req.Duration
	if duration <= 0 {
		duration = DefaultVideoDuration
	}
	width, height := req.Width, req.Height
	if width <= 0 || height <= 0 {
		width, height = DefaultVideoWidth, DefaultVideoHeight
	}
	if err := CheckFrameSize(width, height); err != nil {
		return err
	}

	source := BlankSource{Width: width, Height: height}
	base := a.clock.Now()
	offsets := VideoSampleOffsets(duration)

	for i, offset := range offsets {
		img, err := source.Grab(ctx)
		if err != nil {
			return err
		}
		frame := NewFrame(uint64(i+1), base.Add(offset), img, req.Name)
		events := a.detector.Detect(frame)
		for j := range events {
			events[j].Offset = offset
		}
		result.Events = append(result.Events, events...)
		result.FramesAnalyzed++
		progress((i + 1) * 100 / len(offsets))
	}
	return nil
}

func (a *Analyzer) analyzeImage(ctx context.Context, req UploadRequest, result *UploadResult, progress func(int)) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(req.Data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if err := CheckFrameSize(cfg.Width, cfg.Height); err != nil {
		return err
	}

	decoded, _, err := image.Decode(bytes.NewReader(req.Data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	img, err := StaticImageSource{Image: decoded}.Grab(ctx)
	if err != nil {
		return err
	}
	frame := NewFrame(1, a.clock.Now(), img, req.Name)
	events := a.detector.Detect(frame)
	a.renderer.Render(frame.Image, events)

	result.Events = events
	result.FramesAnalyzed = 1
	result.Annotated = frame.Image
	progress(100)
	return nil
}

func (a *Analyzer) analyzeDocument(req UploadRequest, result *UploadResult, progress func(int)) {
	a.mu.Lock()
	page := 1 + a.rnd.IntN(DocumentMaxPageHint)
	a.mu.Unlock()

	result.Events = []Event{{
		ID:         uuid.NewString(),
		Category:   DocumentCategory,
		Label:      DocumentLabel,
		Confidence: DocumentConfidence,
		Timestamp:  a.clock.Now(),
		Source:     req.Name,
		Page:       page,
	}}
	progress(100)
}
