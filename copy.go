// File: configurator/copy.go
package configurator

import (
	"errors"
	"fmt"
	"slices"
)

// Copy writes every option of every section of src into dst, creating sections
// as needed and overwriting options dst already has. Values travel as strings.
//
// Options of an INI DEFAULT section are copied into a DEFAULT section of dst.
// INI to INI copies keep %(name)s references raw; any other destination gets
// the interpolated value, since only INI can resolve them later.
// Top-level plain values of a flat document have no section and are skipped.
func Copy(dst, src Adapter) error {
	sections := src.Sections()
	if !slices.Contains(sections, DefaultSection) && len(src.Options(DefaultSection)) > 0 {
		sections = append([]string{DefaultSection}, sections...)
	}
	raw := dst.Format() == FormatINI

	for _, section := range sections {
		if !dst.HasSection(section) {
			// INI's DEFAULT section always exists but is not listed.
			if err := dst.AddSection(section); err != nil && !errors.Is(err, ErrDuplicateSection) {
				return fmt.Errorf("failed to copy section '%s': %w", section, err)
			}
		}

		for _, option := range src.Options(section) {
			value, err := src.GetWithOptions(section, option, GetOptions{Raw: raw})
			if err != nil {
				return fmt.Errorf("failed to copy option '%s' in section '%s': %w", option, section, err)
			}
			if err := dst.Set(section, option, value); err != nil {
				return err
			}
		}
	}
	return nil
}
