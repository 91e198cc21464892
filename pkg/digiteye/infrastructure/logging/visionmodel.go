package logging

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"kgeyst.com/digiteye/pkg/common"
	"kgeyst.com/digiteye/pkg/digiteye/domain"
)

type visionModelDecorator struct {
	wrappedVisionModel domain.VisionModel
	logger             common.Logger
}

// NewVisionModelDecorator logs every query (prompt, image type and size, answer, latency) under a fresh query ID.
// The credential is passed through untouched and never logged.
func NewVisionModelDecorator(wrappedVisionModel domain.VisionModel, logger common.Logger) domain.VisionModel {
	return &visionModelDecorator{
		wrappedVisionModel: wrappedVisionModel,
		logger:             logger,
	}
}

func (v *visionModelDecorator) Ask(image []byte, mimeType, prompt, credential string) (string, error) {
	queryID := uuid.New().String()
	v.logger.Log(fmt.Sprintf("\n================\n vision query %s (%s, %d bytes):\n%s\n================\n\n", queryID, mimeType, len(image), prompt))
	t := time.Now()
	answer, err := v.wrappedVisionModel.Ask(image, mimeType, prompt, credential)
	took := time.Since(t).Milliseconds()
	if err != nil {
		v.logger.Log(fmt.Sprintf("vision query %s failed after %d ms: %s\n", queryID, took, err))
		return "", err
	}
	v.logger.Log(fmt.Sprintf("\n================\n vision query %s answer:\n%s\n (took %d ms)\n================\n", queryID, answer, took))
	return answer, nil
}
