package detection

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
)

// MaxConfidence caps every generated confidence score.
const MaxConfidence = 0.95

type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Event is an immutable detection produced for one frame.
type Event struct {
	ID         string        `json:"id"`
	Category   string        `json:"category"`
	Label      string        `json:"label"`
	Confidence float64       `json:"confidence"`
	Timestamp  time.Time     `json:"timestamp"`
	Box        Box           `json:"box"`
	FrameSeq   uint64        `json:"frame_seq"`
	Source     string        `json:"source"`
	Offset     time.Duration `json:"offset,omitempty"`
	Page       int           `json:"page,omitempty"`
}

func (e Event) Suspicious() bool {
	return strings.Contains(strings.ToLower(e.Label), "suspicious")
}

// DetectionSource turns a frame into zero or more events.
type DetectionSource interface {
	Detect(frame *Frame) []Event
}

// Generator is the synthetic DetectionSource: each category fires independently with its
// trigger probability, and nothing carries over between frames.
type Generator struct {
	mu         sync.Mutex
	rnd        *rand.Rand
	categories []Category
}

// NewGenerator keeps only the categories that pass Validate; the others are logged and skipped.
func NewGenerator(rnd *rand.Rand, categories []Category) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := common.GetLoggerWith(
		common.LoggerNameDetection,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDetection),
	)
	valid := lo.Filter(categories, func(c Category, _ int) bool {
		if err := c.Validate(); err != nil {
			logger.Warn("Skipping invalid category", zap.String("name", c.Name), zap.Error(err))
			return false
		}
		return true
	})
	return &Generator{rnd: rnd, categories: valid}
}

// NewSeededGenerator is NewGenerator over a PCG stream with a fixed seed.
func NewSeededGenerator(seed uint64, categories []Category) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), categories)
}

func (g *Generator) Categories() []Category {
	return g.categories
}

func (g *Generator) Detect(frame *Frame) []Event {
	if frame == nil || frame.Width < MinFrameSize || frame.Height < MinFrameSize {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var events []Event
	for _, c := range g.categories {
		if g.rnd.Float64() >= c.TriggerProbability {
			continue
		}
		events = append(events, g.event(c, frame))
	}
	return events
}

func (g *Generator) event(c Category, frame *Frame) Event {
	label := c.Labels[0]
	if len(c.Labels) > 1 {
		label = c.Labels[g.rnd.IntN(len(c.Labels))]
	}

	confidence := c.ConfidenceMin + g.rnd.Float64()*(c.ConfidenceMax-c.ConfidenceMin)

	w := g.span(c.BoxMin, c.BoxMax, frame.Width)
	h := g.span(c.BoxMin, c.BoxMax, frame.Height)

	return Event{
		ID:         uuid.NewString(),
		Category:   c.Name,
		Label:      label,
		Confidence: common.Clamp(confidence, 0, MaxConfidence),
		Timestamp:  frame.Timestamp,
		Box: Box{
			X:      g.rnd.IntN(frame.Width - w + 1),
			Y:      g.rnd.IntN(frame.Height - h + 1),
			Width:  w,
			Height: h,
		},
		FrameSeq: frame.Seq,
		Source:   frame.Source,
	}
}

// span draws a box side in [low, min(high, limit)].
func (g *Generator) span(low, high, limit int) int {
	high = min(high, limit)
	low = min(low, high)
	if low < 1 {
		low = 1
	}
	if high < low {
		return low
	}
	return low + g.rnd.IntN(high-low+1)
}
