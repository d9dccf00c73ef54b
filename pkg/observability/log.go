package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug-level log line. It implements
// PipelineHooks, CacheHooks and HTTPHooks, so one value can be registered
// for all three:
//
//	h := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(h)
//	observability.SetCacheHooks(h)
//	observability.SetHTTPHooks(h)
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through a "hooks"-prefixed child of l.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

// Install registers h for every event category.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLoadStart(_ context.Context, scene string) {
	h.logger.Debug("load start", "scene", scene)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, scene string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "scene", scene, "duration", d, "err", err)
		return
	}
	h.logger.Debug("load complete", "scene", scene, "nodes", nodeCount, "duration", d)
}

func (h *LogHooks) OnTick(_ context.Context, scene string, tick, ran, skipped int, d time.Duration) {
	h.logger.Debug("tick", "scene", scene, "tick", tick, "ran", ran, "skipped", skipped, "duration", d)
}

func (h *LogHooks) OnBehaviorSkipped(_ context.Context, nodeID, kind string) {
	h.logger.Debug("behavior skipped", "node", nodeID, "kind", kind)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render start", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "duration", d, "err", err)
		return
	}
	h.logger.Debug("render complete", "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Debug("request error", "method", method, "path", path, "err", err)
}
