package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"whisper-api/internal/api/server"
	"whisper-api/internal/api/v1/services"
	"whisper-api/internal/app/metrics"
	"whisper-api/internal/app/speech"
	"whisper-api/internal/app/staging"
	"whisper-api/internal/config"

	// speech backends register themselves
	_ "whisper-api/internal/app/api/openai/whisper"
	_ "whisper-api/internal/app/api/whisper_cpp"
)

// provideRegistry creates the Prometheus registry served at /metrics.
func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

// provideLoader picks the configured backend. Nothing is loaded yet.
func provideLoader(cfg *config.Config, logger *zap.Logger) (speech.Loader, error) {
	return speech.NewLoader(cfg, logger.Named("speech"))
}

func provideHandle(loader speech.Loader, observer speech.LoadObserver, logger *zap.Logger) *speech.Handle {
	return speech.NewHandle(loader, observer, logger.Named("speech"))
}

func provideStager(cfg *config.Config, logger *zap.Logger) *staging.Stager {
	return staging.New(cfg.Upload.TempDir, logger.Named("staging"))
}

func provideTranscriptionService(
	models services.ModelSource,
	stager *staging.Stager,
	observer services.TranscriptionObserver,
	logger *zap.Logger,
) services.TranscriptionService {
	return services.NewTranscriptionService(models, stager, observer, logger.Named("transcription"))
}

var speechSet = wire.NewSet(
	provideRegistry,
	provideMetrics,
	provideLoader,
	provideHandle,
	provideStager,
	provideTranscriptionService,
	wire.Bind(new(speech.LoadObserver), new(*metrics.Metrics)),
	wire.Bind(new(services.TranscriptionObserver), new(*metrics.Metrics)),
	wire.Bind(new(services.ModelSource), new(*speech.Handle)),
)

var serverSet = wire.NewSet(
	speechSet,
	server.NewServer,
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
)
