// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ik5/audmix/assets"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/backend/beep"
	"github.com/ik5/audmix/backend/oto"
	"github.com/ik5/audmix/backend/silent"
	"github.com/ik5/audmix/config"
	"github.com/ik5/audmix/mixer"
)

// Engine owns the playback backend, the asset store and the mixer built
// from a config.Config.
type Engine struct {
	cfg     *config.Config
	backend audio.Backend
	assets  *assets.Store
	mixer   *mixer.Mixer
	dynamic *mixer.Dynamic
	log     *slog.Logger

	stopWatch context.CancelFunc
	watching  sync.WaitGroup
	closeOnce sync.Once
}

// Option configures Open.
type Option func(*Engine)

// WithBackend plays through b instead of the backend named in the config.
func WithBackend(b audio.Backend) Option {
	return func(e *Engine) { e.backend = b }
}

// WithLogger sets the logger shared by the mixer and the asset store.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Open validates cfg, opens the output device, decodes every configured
// asset and builds the mixer. Nothing is played. A missing or undecodable
// asset fails Open before any mixer state exists.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(e)
	}

	format := audio.Format{SampleRate: cfg.SampleRate, Channels: cfg.OutputChannels}
	e.assets = assets.NewStore(nil, format, assets.WithLogger(e.log))
	if err := e.assets.LoadAll(ctx, requests(cfg)); err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}

	if e.backend == nil {
		b, err := openBackend(cfg, format)
		if err != nil {
			return nil, err
		}
		e.backend = b
	}

	categories := make(map[mixer.Category]float64, len(cfg.Categories))
	for name, v := range cfg.Categories {
		categories[mixer.Category(name)] = v
	}

	m, err := mixer.New(e.backend,
		mixer.WithChannels(cfg.Channels),
		mixer.WithMinimumVolume(cfg.MinimumVolume),
		mixer.WithMasterVolume(cfg.MasterVolume),
		mixer.WithDefaultCategoryVolume(cfg.DefaultCategoryVolume),
		mixer.WithCategories(categories),
		mixer.WithLogger(e.log),
	)
	if err != nil {
		_ = closeBackend(e.backend)
		return nil, err
	}
	e.mixer = m
	e.dynamic = mixer.NewDynamic(m, float32(cfg.ListeningDistance))

	if cfg.WatchAssets {
		watchCtx, cancel := context.WithCancel(context.Background())
		e.stopWatch = cancel
		e.watching.Go(func() {
			if err := e.assets.Watch(watchCtx); err != nil {
				e.log.Error("asset watcher stopped", "error", err)
			}
		})
	}

	e.log.Info("audio engine ready",
		"backend", cfg.Backend,
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"sounds", len(cfg.Sounds),
		"music", len(cfg.Music),
	)
	return e, nil
}

func requests(cfg *config.Config) []assets.Request {
	reqs := make([]assets.Request, 0, len(cfg.Sounds)+len(cfg.Music))
	for name, s := range cfg.Sounds {
		reqs = append(reqs, assets.Request{Name: name, Path: cfg.Resolve(s.Path), Volume: s.Volume})
	}
	for name, path := range cfg.Music {
		reqs = append(reqs, assets.Request{Name: name, Path: cfg.Resolve(path), Music: true})
	}
	return reqs
}

func openBackend(cfg *config.Config, f audio.Format) (audio.Backend, error) {
	switch cfg.Backend {
	case config.BackendOto:
		return oto.New(f)
	case config.BackendBeep:
		return beep.New(cfg.SampleRate, time.Duration(cfg.BufferMs)*time.Millisecond)
	case config.BackendSilent:
		return silent.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}

func closeBackend(b audio.Backend) error {
	if c, ok := b.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (e *Engine) Mixer() *mixer.Mixer     { return e.mixer }
func (e *Engine) Dynamic() *mixer.Dynamic { return e.dynamic }
func (e *Engine) Assets() *assets.Store   { return e.assets }
func (e *Engine) Config() *config.Config  { return e.cfg }

// Tick advances the mixer by dt. Call it once per frame.
func (e *Engine) Tick(dt time.Duration) { e.mixer.Tick(dt) }

// Play starts the sound loaded as name.
func (e *Engine) Play(cat mixer.Category, name string, volume float64, opts ...mixer.PlayOption) (*mixer.Sound, error) {
	t, err := e.assets.Template(name)
	if err != nil {
		return nil, err
	}
	return e.mixer.PlaySound(cat, t, volume, opts...)
}

// PlayNamed starts the sound loaded as name under its own name in the
// singleton registry.
func (e *Engine) PlayNamed(cat mixer.Category, name string, volume float64, single bool, opts ...mixer.PlayOption) (*mixer.Sound, error) {
	t, err := e.assets.Template(name)
	if err != nil {
		return nil, err
	}
	return e.mixer.PlayNamedSound(mixer.Name(name), cat, t, volume, single, opts...)
}

// PlayAt starts the sound loaded as name at a world position, attenuated by
// its distance from the listener.
func (e *Engine) PlayAt(cat mixer.Category, name string, pos mixer.Position, volume float64, opts ...mixer.PlayOption) (*mixer.Sound, error) {
	t, err := e.assets.Template(name)
	if err != nil {
		return nil, err
	}
	return e.dynamic.PlaySoundAt(cat, pos, t, volume, opts...)
}

// PlayMusic switches to the track loaded as name.
func (e *Engine) PlayMusic(name string, volume float64, opts ...mixer.PlayOption) error {
	clip, err := e.assets.Music(name)
	if err != nil {
		return err
	}
	return e.mixer.PlayMusic(clip, volume, opts...)
}

// Close stops every sound and the music, ends asset watching and releases
// the output device. Calling it again does nothing.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		if e.stopWatch != nil {
			e.stopWatch()
			e.watching.Wait()
		}

		e.mixer.StopAll(0)
		e.mixer.StopMusic(0)
		e.mixer.Tick(0)

		err = closeBackend(e.backend)
	})
	return err
}
