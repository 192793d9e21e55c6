package i18n

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
)

// Preferences persists small string values across restarts.
// Get reports ok=false when the key was never set.
type Preferences interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Event is delivered to subscribers after every language change.
type Event struct {
	Language Language `json:"language"`
}

// Listener receives change events. It is called synchronously and must not
// call SetLanguage.
type Listener func(Event)

// Options configures a Store. Loader is required; the rest have defaults.
type Options struct {
	Loader        Loader
	Preferences   Preferences
	Hint          HintSource
	Supported     []Language
	Default       Language
	PreferenceKey string
}

// Store owns the current language, its translation table and the persisted
// preference.
type Store struct {
	loader    Loader
	prefs     Preferences
	hint      HintSource
	supported []Language
	def       Language
	prefKey   string

	mu      sync.RWMutex
	current Language
	table   Table
	gen     uint64

	subMu   sync.Mutex
	subs    map[int]Listener
	nextSub int

	initOnce sync.Once
	initErr  error
}

// NewStore validates opts and returns a Store whose current language is the
// default with an empty table. Call Initialize to load the real one.
func NewStore(opts Options) (*Store, error) {
	if opts.Loader == nil {
		return nil, errors.New("i18n: loader is required")
	}
	supported := opts.Supported
	if len(supported) == 0 {
		supported = DefaultSupported()
	}
	def := opts.Default
	if def == "" {
		def = DefaultLanguage
	}
	if !slices.Contains(supported, def) {
		return nil, fmt.Errorf("i18n: default language %q is not in the supported set %v", def, supported)
	}
	key := opts.PreferenceKey
	if key == "" {
		key = PreferenceKey
	}
	return &Store{
		loader:    opts.Loader,
		prefs:     opts.Preferences,
		hint:      opts.Hint,
		supported: slices.Clone(supported),
		def:       def,
		prefKey:   key,
		current:   def,
		table:     Table{},
		subs:      make(map[int]Listener),
	}, nil
}

// Supported returns a copy of the supported language set.
func (s *Store) Supported() []Language { return slices.Clone(s.supported) }

// Default returns the fallback language.
func (s *Store) Default() Language { return s.def }

// IsSupported reports whether lang is in the supported set.
func (s *Store) IsSupported(lang Language) bool {
	return slices.Contains(s.supported, lang)
}

// DetectPreferredLanguage maps the locale hint to a supported language,
// falling back to the default.
func (s *Store) DetectPreferredLanguage(ctx context.Context) Language {
	hint := ""
	if s.hint != nil {
		hint = s.hint.LocaleHint(ctx)
	}
	return DetectLanguage(hint, s.supported, s.def)
}

// LoadTable loads the table for lang. If that fails and lang is not the
// default, the default language's table is tried once.
func (s *Store) LoadTable(ctx context.Context, lang Language) (Table, error) {
	table, err := s.loader.Load(ctx, lang)
	if err == nil {
		return table, nil
	}
	log.Printf("i18n: error loading language file %s: %v", lang, err)
	if lang == s.def {
		return nil, &LoadError{Lang: lang, Err: err}
	}

	table, fbErr := s.loader.Load(ctx, s.def)
	if fbErr != nil {
		log.Printf("i18n: error loading default language file %s: %v", s.def, fbErr)
		return nil, &LoadError{Lang: lang, Err: errors.Join(err, fbErr)}
	}
	return table, nil
}

// Translate resolves a dotted key against the current table. Unknown keys
// and non-string values resolve to the key itself.
func (s *Store) Translate(key string) string {
	s.mu.RLock()
	v, ok := s.table.Lookup(key)
	s.mu.RUnlock()
	if !ok {
		log.Printf("i18n: translation key not found: %s", key)
		return key
	}
	return v
}

// SetLanguage switches to lang, persists it, loads its table and notifies
// subscribers once. Unsupported languages are rejected without any change.
// A *LoadError is returned when no table could be loaded; the language is
// still switched and subscribers are still notified.
func (s *Store) SetLanguage(ctx context.Context, lang Language) error {
	if !s.IsSupported(lang) {
		log.Printf("i18n: unsupported language: %s", lang)
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	s.mu.Lock()
	s.current = lang
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.savePreference(ctx, lang)

	table, err := s.LoadTable(ctx, lang)
	s.install(gen, table, err)
	s.notify(Event{Language: lang})
	return err
}

// Reload re-reads the table for the current language without touching the
// saved preference, then notifies subscribers.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	lang := s.current
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	table, err := s.LoadTable(ctx, lang)
	s.install(gen, table, err)
	s.notify(Event{Language: lang})
	return err
}

// install swaps in the result of a load started at generation gen. Results
// of superseded loads are dropped; a failed load leaves an empty table.
func (s *Store) install(gen uint64, table Table, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	if err != nil {
		s.table = Table{}
		return
	}
	s.table = table
}

// CurrentLanguage returns the active language.
func (s *Store) CurrentLanguage() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Table returns a copy of the active translation table.
func (s *Store) Table() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// SavedLanguage returns the persisted preference. It reports false when
// nothing was saved, storage is unavailable, or the saved value is no longer
// supported.
func (s *Store) SavedLanguage(ctx context.Context) (Language, bool) {
	if s.prefs == nil {
		return "", false
	}
	v, ok, err := s.prefs.Get(ctx, s.prefKey)
	if err != nil {
		log.Printf("i18n: failed to load saved language: %v", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	lang := Language(v)
	if !s.IsSupported(lang) {
		log.Printf("i18n: ignoring saved language %q: not supported", v)
		return "", false
	}
	return lang, true
}

func (s *Store) savePreference(ctx context.Context, lang Language) {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.Set(ctx, s.prefKey, string(lang)); err != nil {
		log.Printf("i18n: failed to save language preference: %v", err)
	}
}

// Initialize picks the starting language (saved preference, then detected
// locale, then default) and applies it. Only the first call has any effect;
// later calls return the first call's result.
func (s *Store) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		lang, ok := s.SavedLanguage(ctx)
		if !ok {
			lang = s.DetectPreferredLanguage(ctx)
		}
		s.initErr = s.SetLanguage(ctx, lang)
		log.Printf("i18n: initialized with language: %s", s.CurrentLanguage())
	})
	return s.initErr
}

// Subscribe registers fn for change events and returns a function that
// removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
