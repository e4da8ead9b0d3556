// FILE: configurator/cmd/confkit/commands.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HEROgold/configurator"
)

func newGetCmd(a *app) *cobra.Command {
	var (
		fallback string
		raw      bool
		vars     map[string]string
	)
	cmd := &cobra.Command{
		Use:   "get <file> <section> <option>",
		Short: "Print an option's value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.open(args[0])
			if err != nil {
				return err
			}

			opts := configurator.GetOptions{Raw: raw, Vars: vars}
			if cmd.Flags().Changed("fallback") {
				opts.Fallback = configurator.Fallback(fallback)
			}

			value, err := cfg.GetWithOptions(args[1], args[2], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
	cmd.Flags().StringVar(&fallback, "fallback", "", "Value printed when the option is absent")
	cmd.Flags().BoolVar(&raw, "raw", false, "Skip %(name)s interpolation (INI)")
	cmd.Flags().StringToStringVar(&vars, "var", nil, "Extra interpolation values as name=value (INI)")
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <section> <option> [value]",
		Short: "Set an option, creating the file and section when needed",
		Long:  `set stores value under option. Without a value the option is stored empty.`,
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg, err := a.openOrCreate(path)
			if err != nil {
				return err
			}

			var value any
			if len(args) == 4 {
				value = args[3]
			}
			if err := cfg.Set(args[1], args[2], value); err != nil {
				return err
			}
			a.log.Debug().Str("path", path).Str("section", args[1]).Str("option", args[2]).Msg("option set")
			return configurator.SaveFile(cfg, path, a.writeOptions())
		},
	}
}

func newSectionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sections <file>",
		Short: "List sections in document order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.open(args[0])
			if err != nil {
				return err
			}
			for _, section := range cfg.Sections() {
				fmt.Fprintln(cmd.OutOrStdout(), section)
			}
			return nil
		},
	}
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options <file> <section>",
		Short: "List a section's options in document order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.open(args[0])
			if err != nil {
				return err
			}
			if !cfg.HasSection(args[1]) {
				return fmt.Errorf("%w: section '%s'", configurator.ErrNotFound, args[1])
			}
			for _, option := range cfg.Options(args[1]) {
				fmt.Fprintln(cmd.OutOrStdout(), option)
			}
			return nil
		},
	}
}

func newHasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "has <file> <section> [option]",
		Short: "Exit 0 when the section (or option) exists, 1 otherwise",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.open(args[0])
			if err != nil {
				return err
			}

			var found bool
			if len(args) == 3 {
				found = cfg.HasOption(args[1], args[2])
			} else {
				found = cfg.HasSection(args[1])
			}
			if !found {
				return errAbsent
			}
			return nil
		},
	}
}

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Read a file and write it back to stdout in its own format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.open(args[0])
			if err != nil {
				return err
			}
			return cfg.WriteWithOptions(cmd.OutOrStdout(), a.writeOptions())
		},
	}
}

func newConvertCmd(a *app) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Copy every section and option of src into a new dst file",
		Long: `convert reads src and writes its sections and options to dst.
The target format comes from --to or the dst extension. Values travel as strings.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.open(args[0])
			if err != nil {
				return err
			}

			format := configurator.Format(to)
			if format == "" {
				if format = configurator.DetectFormat(args[1]); format == "" {
					return fmt.Errorf("%w: cannot tell the format of '%s', use --to", configurator.ErrUnsupportedFormat, args[1])
				}
			}

			dst, err := configurator.New(format, a.adapterOptions()...)
			if err != nil {
				return err
			}
			if err := configurator.Copy(dst, src); err != nil {
				return err
			}

			a.log.Debug().
				Str("from", string(src.Format())).
				Str("to", string(dst.Format())).
				Int("sections", len(dst.Sections())).
				Msg("converted")
			return configurator.SaveFile(dst, args[1], a.writeOptions())
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target format (ini, json, toml, yaml); detected from dst when empty")
	return cmd
}
