// SPDX-License-Identifier: EPL-2.0

package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/mixer"
)

// sniffLen is the header size filetype needs to recognize every audio type.
const sniffLen = 262

// DefaultRegistry returns a registry with every bundled decoder.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	return r
}

type kind int

const (
	kindSound kind = iota
	kindMusic
)

type source struct {
	kind   kind
	name   string
	volume float64
}

// Store decodes audio files once and hands out shared clips. Sound effects
// become mixer templates, music stays a plain clip. Every clip is converted
// to the output format given to NewStore.
//
// A Store is safe for concurrent use.
type Store struct {
	registry *audio.Registry
	format   audio.Format
	log      *slog.Logger

	mu        sync.RWMutex
	templates map[string]*mixer.Template
	music     map[string]*audio.Clip
	// sources maps a cleaned file path to what was loaded from it.
	sources map[string][]source
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for reloads.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// NewStore returns an empty store converting clips to f. A nil registry
// means DefaultRegistry.
func NewStore(reg *audio.Registry, f audio.Format, opts ...StoreOption) *Store {
	if reg == nil {
		reg = DefaultRegistry()
	}

	s := &Store{
		registry:  reg,
		format:    f,
		log:       slog.New(slog.DiscardHandler),
		templates: make(map[string]*mixer.Template),
		music:     make(map[string]*audio.Clip),
		sources:   make(map[string][]source),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Format is the sample layout every stored clip is converted to.
func (s *Store) Format() audio.Format { return s.format }

// Decode reads the file at path into a clip named name. The decoder is
// picked from the extension, or from the file header when the extension is
// unknown.
func (s *Store) Decode(name, path string) (*audio.Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssetNotFound, err)
	}
	defer f.Close()

	dec, err := s.decoderFor(path, f)
	if err != nil {
		return nil, err
	}

	// Every decoder gets the file itself: mp3 reports its length and
	// go-audio parses chunks only when the input can seek.
	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	clip, err := audio.ReadClip(name, src)
	if err != nil {
		if errors.Is(err, audio.ErrEmptyClip) {
			return nil, fmt.Errorf("%s: %w", path, ErrEmptyClip)
		}
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	if s.format.SampleRate > 0 && s.format.Channels > 0 {
		clip, err = audio.Convert(clip, s.format)
		if err != nil {
			return nil, err
		}
	}
	return clip, nil
}

func (s *Store) decoderFor(path string, f io.ReadSeeker) (audio.Decoder, error) {
	if dec, ok := s.registry.ForPath(path); ok {
		return dec, nil
	}

	head := make([]byte, sniffLen)
	n, _ := io.ReadFull(f, head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ft, err := filetype.Match(head[:n])
	if err == nil && ft != filetype.Unknown {
		if dec, ok := s.registry.Get(ft.Extension); ok {
			return dec, nil
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return nil, fmt.Errorf("%w: %s (%q)", ErrUnsupportedFormat, path, ext)
}

// Load decodes path into a sound template registered as name. Loading a
// name again replaces its template; sounds already playing keep the old
// clip.
func (s *Store) Load(name, path string, volume float64) (*mixer.Template, error) {
	clip, err := s.Decode(name, path)
	if err != nil {
		return nil, err
	}

	t := &mixer.Template{Name: name, Clip: clip, Volume: volume}

	s.mu.Lock()
	s.templates[name] = t
	s.track(path, source{kind: kindSound, name: name, volume: volume})
	s.mu.Unlock()

	return t, nil
}

// LoadMusic decodes path into a music clip. An empty name is replaced by
// the file name without its extension.
func (s *Store) LoadMusic(name, path string) (*audio.Clip, error) {
	if name == "" {
		name = NameFromPath(path)
	}

	clip, err := s.Decode(name, path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.music[name] = clip
	s.track(path, source{kind: kindMusic, name: name})
	s.mu.Unlock()

	return clip, nil
}

// track must be called with mu held.
func (s *Store) track(path string, src source) {
	key := filepath.Clean(path)
	list := slices.DeleteFunc(s.sources[key], func(o source) bool {
		return o.kind == src.kind && o.name == src.name
	})
	s.sources[key] = append(list, src)
}

// Request is one file for LoadAll.
type Request struct {
	Name   string
	Path   string
	Volume float64
	Music  bool
}

// LoadAll decodes every request in parallel. It stops at the first failure
// and returns it; assets decoded before that stay loaded.
func (s *Store) LoadAll(ctx context.Context, reqs []Request) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var err error
			if req.Music {
				_, err = s.LoadMusic(req.Name, req.Path)
			} else {
				_, err = s.Load(req.Name, req.Path, req.Volume)
			}
			return err
		})
	}

	return g.Wait()
}

// Template returns the sound template registered as name.
func (s *Store) Template(name string) (*mixer.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[name]
	if !ok {
		return nil, fmt.Errorf("sound %q: %w", name, ErrAssetNotFound)
	}
	return t, nil
}

// Music returns the music clip registered as name.
func (s *Store) Music(name string) (*audio.Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.music[name]
	if !ok {
		return nil, fmt.Errorf("music %q: %w", name, ErrAssetNotFound)
	}
	return c, nil
}

// Sounds lists the loaded template names in order.
func (s *Store) Sounds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedKeys(s.templates)
}

// Tracks lists the loaded music names in order.
func (s *Store) Tracks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedKeys(s.music)
}

// Unload forgets a sound template and a music track named name.
func (s *Store) Unload(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.templates, name)
	delete(s.music, name)
	for path, list := range s.sources {
		list = slices.DeleteFunc(list, func(o source) bool { return o.name == name })
		if len(list) == 0 {
			delete(s.sources, path)
		} else {
			s.sources[path] = list
		}
	}
}

// NameFromPath returns the file name of path without directory and
// extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
