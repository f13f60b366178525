package backend

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
)

// Config encapsulates all tunables for Engine construction.
type Config struct {
	// Path to the model file to load.
	ModelPath string
	// Advertised model name; defaults to the model file name.
	ModelName string
	// Capability dictionary advertised once the model is loaded. When nil,
	// a minimal dictionary with filter_caps = [ModelName] is used.
	ModelDict map[string]any
	// Whether the loaded model supports chat.
	ChatEnabled bool

	MaxQueueDepth int
	MaxWait       time.Duration

	// Runtime options forwarded to the adapter.
	CtxSize int
	Threads int
}

// Engine fronts exactly one loaded model. Until Load succeeds it reports an
// empty model name, which the normalizer maps to a not-ready rejection.
type Engine struct {
	mu      sync.RWMutex
	cfg     Config
	adapter Adapter
	session Session

	modelName string
	modelDict map[string]any
	chatOK    bool
	lastErr   string

	genCh   chan struct{} // size 1: single in-flight generation
	queueCh chan struct{} // buffered: queue slots
	maxWait time.Duration
}

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the engine.
func SetLogger(l zerolog.Logger) { zlog = &l }

func logErr(err error, msg string) {
	if zlog != nil {
		zlog.Error().Err(err).Msg(msg)
		return
	}
	log.Printf("%s: %v", msg, err)
}

// New constructs an Engine. The model is not loaded yet; call Load.
func New(cfg Config) *Engine {
	depth := cfg.MaxQueueDepth
	if depth <= 0 {
		depth = defaultMaxQueueDepth
	}
	wait := cfg.MaxWait
	if wait <= 0 {
		wait = defaultMaxWait
	}
	return &Engine{
		cfg:     cfg,
		adapter: NewLlamaAdapter(cfg.CtxSize, cfg.Threads),
		genCh:   make(chan struct{}, 1),
		queueCh: make(chan struct{}, depth),
		maxWait: wait,
	}
}

// Load loads the configured model through the adapter. On failure the model
// stays unloaded and the error is recorded for not-ready responses.
func (e *Engine) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sess, err := e.adapter.Start(e.cfg.ModelPath, e.genParams())
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.lastErr = err.Error()
		return err
	}
	e.session = sess
	e.lastErr = ""
	e.modelName = e.cfg.ModelName
	if e.modelName == "" {
		e.modelName = filepath.Base(e.cfg.ModelPath)
	}
	e.modelDict = e.cfg.ModelDict
	if e.modelDict == nil {
		e.modelDict = map[string]any{"filter_caps": []string{e.modelName}}
	}
	e.chatOK = e.cfg.ChatEnabled
	return nil
}

// Close releases the loaded session, if any.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	err := e.session.Close()
	e.session = nil
	e.modelName = ""
	e.modelDict = nil
	return err
}

// ModelName returns the loaded model name, or "" while loading.
func (e *Engine) ModelName() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.modelName
}

// ModelDict returns the loaded model's capability dictionary.
func (e *Engine) ModelDict() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.modelDict
}

// ChatAvailable reports whether the loaded model supports chat.
func (e *Engine) ChatAvailable() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.chatOK
}

// LastError returns the backend's last recorded error, or "".
func (e *Engine) LastError() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastErr
}

// Ready reports whether a model is loaded and able to serve.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session != nil
}

func (e *Engine) genParams() GenParams {
	return GenParams{
		CtxSize: e.cfg.CtxSize,
		Threads: e.cfg.Threads,
	}
}

func (e *Engine) currentSession() Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session
}

func (e *Engine) recordError(err error) {
	e.mu.Lock()
	e.lastErr = err.Error()
	e.mu.Unlock()
}
