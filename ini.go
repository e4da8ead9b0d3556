// File: configurator/ini.go
package configurator

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"
)

// DefaultSection names the INI section whose options every other section inherits.
var DefaultSection = ini.DefaultSection

// iniLayoutMu guards ini.v1's package-level layout switches during a write.
var iniLayoutMu sync.Mutex

// INIAdapter passes sections and options straight through to gopkg.in/ini.v1.
//
// Lookups fall back to the DEFAULT section, and Get interpolates %(name)s
// references unless GetOptions.Raw is set. DEFAULT is implicit: it is never
// listed by Sections or reported by HasSection. Adding a section that already
// exists fails with ErrDuplicateSection.
type INIAdapter struct {
	file     *ini.File
	loadOpts ini.LoadOptions
	log      zerolog.Logger
}

var _ Adapter = (*INIAdapter)(nil)

// NewINI returns an empty INI adapter.
func NewINI(opts ...Option) *INIAdapter {
	o := newAdapterOptions(opts)
	return &INIAdapter{
		file:     ini.Empty(o.iniLoad),
		loadOpts: o.iniLoad,
		log:      o.logger.With().Str("format", string(FormatINI)).Logger(),
	}
}

// Format reports FormatINI.
func (a *INIAdapter) Format() Format {
	return FormatINI
}

// Read loads an INI file.
func (a *INIAdapter) Read(path string) error {
	return a.ReadWithOptions(path, ReadOptions{})
}

// ReadWithOptions loads an INI file, decoding it from opts.Encoding first.
func (a *INIAdapter) ReadWithOptions(path string, opts ReadOptions) error {
	data, err := readFile(path, opts.Encoding)
	if err != nil {
		return err
	}

	file, err := ini.LoadSources(a.loadOpts, data)
	if err != nil {
		return &ParseError{Path: path, Format: FormatINI, Err: err}
	}
	a.file = file
	a.log.Debug().Str("path", path).Int("sections", len(a.Sections())).Msg("configuration read")
	return nil
}

// Get returns the interpolated value of option.
func (a *INIAdapter) Get(section, option string) (string, error) {
	return a.GetWithOptions(section, option, GetOptions{})
}

// GetWithOptions returns option from section or DEFAULT.
// Vars shadow both the section's options and DEFAULT for this lookup.
func (a *INIAdapter) GetWithOptions(section, option string, opts GetOptions) (string, error) {
	file := a.file
	if len(opts.Vars) > 0 && a.sectionExists(section) {
		file = a.overlay(section, opts.Vars)
	}

	key := lookupKey(file, section, option)
	if key == nil {
		if opts.Fallback != nil {
			return *opts.Fallback, nil
		}
		return "", &MissingOptionError{Section: section, Option: option}
	}

	if opts.Raw {
		return key.Value(), nil
	}
	return key.String(), nil
}

// lookupKey finds option in section, then in DEFAULT.
func lookupKey(file *ini.File, section, option string) *ini.Key {
	sec, err := file.GetSection(section)
	if err != nil {
		return nil
	}
	if key, err := sec.GetKey(option); err == nil {
		return key
	}
	if sec.Name() == ini.DefaultSection {
		return nil
	}
	if key, err := file.Section(ini.DefaultSection).GetKey(option); err == nil {
		return key
	}
	return nil
}

// overlay copies DEFAULT and section into a scratch file and applies vars.
func (a *INIAdapter) overlay(section string, vars map[string]string) *ini.File {
	scratch := ini.Empty(a.loadOpts)
	copyKeys(scratch.Section(ini.DefaultSection), a.file.Section(ini.DefaultSection))
	if sec, err := a.file.GetSection(section); err == nil {
		copyKeys(scratch.Section(section), sec)
	}

	target := scratch.Section(section)
	for name, value := range vars {
		target.NewKey(name, value)
	}
	return scratch
}

func copyKeys(dst, src *ini.Section) {
	for _, key := range src.Keys() {
		dst.NewKey(key.Name(), key.Value())
	}
}

func (a *INIAdapter) sectionExists(section string) bool {
	_, err := a.file.GetSection(section)
	return err == nil
}

func isDefaultSection(section string) bool {
	return section == "" || section == ini.DefaultSection
}

// HasSection reports whether a named (non-DEFAULT) section exists.
func (a *INIAdapter) HasSection(section string) bool {
	return !isDefaultSection(section) && a.sectionExists(section)
}

// AddSection creates an empty section. It fails with ErrDuplicateSection
// if the section exists, which always holds for DEFAULT.
func (a *INIAdapter) AddSection(section string) error {
	if isDefaultSection(section) || a.sectionExists(section) {
		return fmt.Errorf("%w: '%s'", ErrDuplicateSection, section)
	}
	if _, err := a.file.NewSection(section); err != nil {
		return fmt.Errorf("failed to add section '%s': %w", section, err)
	}
	a.log.Debug().Str("section", section).Msg("section added")
	return nil
}

// HasOption reports whether option is set in section or inherited from DEFAULT.
// It is false when section does not exist.
func (a *INIAdapter) HasOption(section, option string) bool {
	defaults := a.file.Section(ini.DefaultSection)
	if isDefaultSection(section) {
		return defaults.HasKey(option)
	}
	sec, err := a.file.GetSection(section)
	if err != nil {
		return false
	}
	return sec.HasKey(option) || defaults.HasKey(option)
}

// Set stores the string form of value, creating the section if needed.
// A nil value stores an empty option.
func (a *INIAdapter) Set(section, option string, value any) error {
	sec := a.file.Section(section)
	if _, err := sec.NewKey(option, stringify(value)); err != nil {
		return fmt.Errorf("failed to set option '%s' in section '%s': %w", option, section, err)
	}
	a.log.Debug().Str("section", section).Str("option", option).Msg("option set")
	return nil
}

// Sections lists named sections in file order.
func (a *INIAdapter) Sections() []string {
	var sections []string
	for _, name := range a.file.SectionStrings() {
		if !isDefaultSection(name) {
			sections = append(sections, name)
		}
	}
	return sections
}

// Options lists a section's own options; inherited DEFAULT options are not included.
func (a *INIAdapter) Options(section string) []string {
	sec, err := a.file.GetSection(section)
	if err != nil {
		return nil
	}
	return sec.KeyStrings()
}

// RemoveSection deletes a named section.
func (a *INIAdapter) RemoveSection(section string) bool {
	if !a.HasSection(section) {
		return false
	}
	a.file.DeleteSection(section)
	return true
}

// RemoveOption deletes an option set directly in section.
func (a *INIAdapter) RemoveOption(section, option string) bool {
	sec, err := a.file.GetSection(section)
	if err != nil || !slices.Contains(sec.KeyStrings(), option) {
		return false
	}
	sec.DeleteKey(option)
	return true
}

// Write serializes the document with "key = value" lines.
func (a *INIAdapter) Write(w io.Writer) error {
	return a.WriteWithOptions(w, DefaultWriteOptions())
}

// WriteWithOptions serializes the document without column alignment.
// DEFAULT options, if any, are written first without a header.
func (a *INIAdapter) WriteWithOptions(w io.Writer, opts WriteOptions) error {
	iniLayoutMu.Lock()
	defer iniLayoutMu.Unlock()

	prettyFormat, prettyEqual := ini.PrettyFormat, ini.PrettyEqual
	defer func() {
		ini.PrettyFormat, ini.PrettyEqual = prettyFormat, prettyEqual
	}()
	ini.PrettyFormat = false
	ini.PrettyEqual = opts.SpaceAroundDelimiters

	n, err := a.file.WriteTo(w)
	if err != nil {
		return fmt.Errorf("%w: failed to write INI config: %w", ErrIO, err)
	}
	a.log.Debug().Int64("bytes", n).Msg("configuration written")
	return nil
}
