package api

import (
	"net/http"
	"time"

	"kgeyst.com/digiteye/pkg/common"
	"kgeyst.com/digiteye/pkg/digiteye/domain"
	"kgeyst.com/digiteye/pkg/digiteye/infrastructure/canvas"
	"kgeyst.com/digiteye/pkg/digiteye/infrastructure/gemini"
	"kgeyst.com/digiteye/pkg/digiteye/infrastructure/logging"
	"kgeyst.com/digiteye/pkg/digiteye/infrastructure/metrics"
	"kgeyst.com/digiteye/pkg/digiteye/infrastructure/retryhttp"
	"kgeyst.com/digiteye/pkg/digiteye/infrastructure/web"
)

// See domain/config.go
const (
	ConfigKeyLogPath          = domain.ConfigKeyLogPath
	ConfigKeyCredentialEnvVar = domain.ConfigKeyCredentialEnvVar
	ConfigKeyMetricsAddress   = domain.ConfigKeyMetricsAddress
	ConfigKeyAgentName        = domain.ConfigKeyAgentName
	ConfigKeyRoomName         = domain.ConfigKeyRoomName
	ConfigKeyServerName       = domain.ConfigKeyServerName
)

const DefaultCredentialEnvVar = "DIGITEYE_API_KEY"

const downloadTimeout = 30 * time.Second

type api struct {
	digitService *domain.DigitService
	urlFinder    *web.URLFinder
	metrics      *metrics.Metrics
	maxImageSize int64
}

// API is the entrypoint to digiteye. It shouldn't contain any logic of its own; it glues all the components together
// and provides a public interface for domain.DigitService. Front-ends (console, IRC) only talk to it.
type API interface {
	// Recognize sends the drawing to the vision model and returns its answer. `followUp` is an optional question
	// appended to the prompt; `credential` is forwarded to the model provider and never stored.
	Recognize(image []byte, followUp, credential string) (string, error)
	// RecognizeMessage finds an image URL in a chat message, downloads the image and recognizes it. The rest of the
	// message is used as the follow-up question.
	RecognizeMessage(message, credential string) (string, error)
	// MetricsHandler serves Prometheus metrics about queries and HTTP attempts.
	MetricsHandler() http.Handler
}

// NewAPI wires the production components. The logger is shared with the front-end so both write to one log.
func NewAPI(config *common.Config, logger common.Logger) API {
	return newAPI(config, logger)
}

// NewLogger creates the logger configured with ConfigKeyLogPath.
func NewLogger(config *common.Config) common.Logger {
	return common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"))
}

func newAPI(config *common.Config, logger common.Logger, options ...retryhttp.Option) *api {
	m := metrics.NewMetrics()
	client := retryhttp.NewClient(logger, append(options, retryhttp.WithObserver(m))...)
	var visionModel domain.VisionModel = gemini.NewVisionModel(client, config)
	visionModel = logging.NewVisionModelDecorator(visionModel, logger)
	visionModel = metrics.NewVisionModelDecorator(visionModel, m)
	return &api{
		digitService: domain.NewDigitService(
			visionModel,
			canvas.NewInspector(config),
			config.GetString(domain.ConfigKeyBasePrompt),
		),
		urlFinder:    web.NewURLFinder(),
		metrics:      m,
		maxImageSize: int64(config.GetIntOrDefault(domain.ConfigKeyMaxImageSize, canvas.DefaultMaxImageSize)),
	}
}

func (a *api) Recognize(image []byte, followUp, credential string) (string, error) {
	return a.digitService.Recognize(image, followUp, credential)
}

func (a *api) RecognizeMessage(message, credential string) (string, error) {
	imageURL, followUp, ok := a.urlFinder.FindImageURL(message)
	if !ok {
		return "", domain.NewVisionError("no image URL found in the message")
	}
	image, err := common.DownloadFromURL(imageURL, a.maxImageSize, downloadTimeout)
	if err != nil {
		return "", domain.NewVisionError("the image could not be downloaded: " + retryhttp.RedactCredential(err.Error()))
	}
	return a.Recognize(image, followUp, credential)
}

func (a *api) MetricsHandler() http.Handler {
	return a.metrics.Handler()
}
