package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inkwell/scribe/pkg/actions"
	"inkwell/scribe/pkg/config"
	"inkwell/scribe/pkg/privacy"
	"inkwell/scribe/pkg/runtime"
	"inkwell/scribe/pkg/telemetry/logging"
	"inkwell/scribe/pkg/telemetry/metrics"
	"inkwell/scribe/pkg/usage"
)

// privacyNoticeShown tracks the one-time remote-transmission notice for this
// CLI session.
var privacyNoticeShown bool

// app wires config, logging, metrics, usage, and the provider manager for
// one command invocation.
type app struct {
	cfg        *config.Config
	manager    *runtime.Manager
	registry   *actions.Registry
	usageStore *usage.Store
	metricsSrv *http.Server
}

// newApp loads the configuration and brings up the runtime.
func newApp() (*app, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}

	logCfg := logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	if _, err := logging.Setup(logCfg); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, registry: actions.NewRegistry()}

	a.manager = runtime.NewManager()
	a.manager.SetPrivacyConfig(runtime.PrivacyConfig{
		MaxContextChars: cfg.Privacy.MaxContextChars,
		AllowSecrets:    cfg.Privacy.AllowSecrets,
	})

	if cfg.Telemetry.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		a.manager.SetMetrics(metrics.NewClientMetrics(registry))

		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		a.metricsSrv = &http.Server{Addr: cfg.Telemetry.Metrics.ListenAddress, Handler: mux}
		go a.metricsSrv.ListenAndServe()
	}

	if cfg.Usage.Enabled {
		store, err := usage.NewStore(usage.StoreConfig{Path: cfg.Usage.Path})
		if err != nil {
			return nil, err
		}
		a.usageStore = store
		a.manager.SetUsageStore(store)
	}

	providerCfg := runtime.Config{
		Providers:      make(map[string]runtime.Credentials, len(cfg.Providers)),
		ActiveProvider: cfg.ActiveProvider,
	}
	for id, p := range cfg.Providers {
		providerCfg.Providers[id] = runtime.Credentials{
			APIKey:       p.APIKey,
			DefaultModel: p.Model,
			BaseURL:      p.BaseURL,
		}
	}
	if err := a.manager.Initialize(providerCfg); err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

// close releases the runtime.
func (a *app) close() {
	if a.manager != nil {
		a.manager.Close()
	}
	if a.usageStore != nil {
		a.usageStore.Close()
	}
	if a.metricsSrv != nil {
		a.metricsSrv.Close()
	}
}

// maybePrintPrivacyNotice prints the one-time notice before content is sent
// to a remote provider. Local providers never trigger it.
func maybePrintPrivacyNotice(providerID string) {
	if privacyNoticeShown || privacy.IsLocalProvider(providerID) {
		return
	}
	privacyNoticeShown = true
	fmt.Fprintf(os.Stderr, "Note: your content will be sent to %q for processing. Detected secrets are blocked unless privacy.allow_secrets is set.\n", providerID)
}
