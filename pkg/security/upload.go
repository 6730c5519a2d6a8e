package security

import (
	"context"

	"go.uber.org/zap"
	"liyu1981.xyz/ai-security-service/pkg/common"
	"liyu1981.xyz/ai-security-service/pkg/detection"
)

// UploadProcessor analyzes uploaded media and persists the fabricated detections under the
// upload's file name.
type UploadProcessor struct {
	security *Security
	analyzer *detection.Analyzer
}

func NewUploadProcessor(s *Security, analyzer *detection.Analyzer) *UploadProcessor {
	if analyzer == nil {
		analyzer = detection.NewAnalyzer(
			detection.NewGenerator(nil, detection.DefaultUploadCategories()),
			nil, nil, nil,
		)
	}
	return &UploadProcessor{security: s, analyzer: analyzer}
}

// Process runs the analysis. cameraID is optional and attaches the detections to a camera.
// A failed analysis is returned with its error and nothing is persisted.
func (p *UploadProcessor) Process(ctx context.Context, req detection.UploadRequest, cameraID string, progress func(pct int)) (*detection.UploadResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameSecurityCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryUpload),
	)

	if cameraID != "" {
		if _, err := p.security.Camera.GetCamera(ctx, cameraID); err != nil {
			p.security.Metrics.ObserveUpload(false)
			return nil, err
		}
	}

	result, err := p.analyzer.Analyze(ctx, req, progress)
	if err != nil {
		p.security.Metrics.ObserveUpload(false)
		return result, err
	}

	if _, err := p.security.Detection.RecordEvents(ctx, cameraID, req.Name, result.Events); err != nil {
		p.security.Metrics.ObserveUpload(false)
		return result, err
	}

	p.security.Metrics.ObserveDetections(len(result.Events), suspiciousEvents(result.Events))
	p.security.Metrics.ObserveUpload(true)

	logger.Info("Upload stored",
		zap.String("id", result.ID),
		zap.String("name", req.Name),
		zap.String("camera_id", cameraID),
		zap.Int("detections", len(result.Events)),
	)
	return result, nil
}
