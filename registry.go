// File: configurator/registry.go
package configurator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

type settingKey struct {
	section string
	option  string
}

// Setting is a registered option and the default it falls back to.
type Setting struct {
	Section string
	Option  string
	Default any
}

// Registry tracks the options a program expects in one configuration file,
// together with their defaults.
//
// A registered option that is missing from the document gets its default
// written in on Load or on its first Get. With WithWriteOnEdit the file is
// saved after every such write and after every Set.
// A Registry is safe for concurrent use. The wrapped Adapter is not, so it
// must not be used directly while the Registry is shared.
type Registry struct {
	adapter     Adapter
	path        string
	writeOnEdit bool
	readOpts    ReadOptions
	writeOpts   WriteOptions
	log         zerolog.Logger

	mutex sync.RWMutex
	items map[settingKey]any
	order []settingKey
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithWriteOnEdit saves the file whenever the registry changes the document.
func WithWriteOnEdit() RegistryOption {
	return func(r *Registry) {
		r.writeOnEdit = true
	}
}

// WithRegistryReadOptions sets the options Load reads the file with.
func WithRegistryReadOptions(opts ReadOptions) RegistryOption {
	return func(r *Registry) {
		r.readOpts = opts
	}
}

// WithRegistryWriteOptions sets the options Save writes the file with.
func WithRegistryWriteOptions(opts WriteOptions) RegistryOption {
	return func(r *Registry) {
		r.writeOpts = opts
	}
}

// WithRegistryLogger sets the logger for registry events.
func WithRegistryLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = logger
	}
}

// NewRegistry wraps a, which is loaded from and saved to path.
func NewRegistry(a Adapter, path string, opts ...RegistryOption) *Registry {
	r := &Registry{
		adapter:   a,
		path:      path,
		writeOpts: DefaultWriteOptions(),
		log:       zerolog.Nop(),
		items:     make(map[settingKey]any),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Adapter returns the wrapped adapter.
func (r *Registry) Adapter() Adapter {
	return r.adapter
}

// Register makes option in section known with defaultValue.
// Registering an option again replaces its default.
func (r *Registry) Register(section, option string, defaultValue any) error {
	if section == "" || option == "" {
		return fmt.Errorf("registration needs a section and an option, got '%s' and '%s'", section, option)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := settingKey{section: section, option: option}
	if _, exists := r.items[key]; !exists {
		r.order = append(r.order, key)
	}
	r.items[key] = defaultValue
	return nil
}

// Unregister forgets option in section. The document keeps any value already written.
func (r *Registry) Unregister(section, option string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := settingKey{section: section, option: option}
	if _, exists := r.items[key]; !exists {
		return fmt.Errorf("setting not registered: %s.%s", section, option)
	}
	delete(r.items, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Registered lists registered settings in registration order.
func (r *Registry) Registered() []Setting {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	settings := make([]Setting, 0, len(r.order))
	for _, key := range r.order {
		settings = append(settings, Setting{Section: key.section, Option: key.option, Default: r.items[key]})
	}
	return settings
}

// Load reads the file and fills in missing registered options.
// A missing file leaves the document as it is.
func (r *Registry) Load() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	err := r.adapter.ReadWithOptions(r.path, r.readOpts)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	missing := err != nil

	added := 0
	for _, key := range r.order {
		if r.adapter.HasOption(key.section, key.option) {
			continue
		}
		if err := r.adapter.Set(key.section, key.option, r.items[key]); err != nil {
			return err
		}
		added++
	}
	r.log.Debug().Str("path", r.path).Bool("missing", missing).Int("defaults", added).Msg("settings loaded")

	if added > 0 && r.writeOnEdit {
		return r.save()
	}
	return nil
}

// Get returns option's value. A registered option missing from the
// document is written with its default first.
func (r *Registry) Get(section, option string) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	value, err := r.adapter.Get(section, option)
	if !errors.Is(err, ErrMissingOption) {
		return value, err
	}
	defaultValue, registered := r.items[settingKey{section: section, option: option}]
	if !registered {
		return "", err
	}

	if err := r.adapter.Set(section, option, defaultValue); err != nil {
		return "", err
	}
	r.log.Debug().Str("section", section).Str("option", option).Msg("default written")
	if r.writeOnEdit {
		if err := r.save(); err != nil {
			return "", err
		}
	}
	return r.adapter.Get(section, option)
}

// Set stores value under option, saving the file with WithWriteOnEdit.
func (r *Registry) Set(section, option string, value any) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.adapter.Set(section, option, value); err != nil {
		return err
	}
	if r.writeOnEdit {
		return r.save()
	}
	return nil
}

// Values returns every option of section as strings: registered defaults,
// overlaid with the values the document holds.
func (r *Registry) Values(section string) (map[string]string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	values := make(map[string]string)
	for _, key := range r.order {
		if key.section == section {
			values[key.option] = stringify(r.items[key])
		}
	}
	for _, option := range r.adapter.Options(section) {
		value, err := r.adapter.Get(section, option)
		if err != nil {
			return nil, err
		}
		values[option] = value
	}
	return values, nil
}

// Save writes the document to the registry's file.
func (r *Registry) Save() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.save()
}

func (r *Registry) save() error {
	if r.path == "" {
		return fmt.Errorf("%w: registry has no file path", ErrIO)
	}
	if err := SaveFile(r.adapter, r.path, r.writeOpts); err != nil {
		return err
	}
	r.log.Debug().Str("path", r.path).Msg("settings saved")
	return nil
}
