package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"dayboard/internal/config"
	"dayboard/internal/fsutil"
)

func configCmd() *Command {
	fs := newFlagSet("config")
	initFile := fs.Bool("init", false, "write a config file with the default settings")
	pathOnly := fs.Bool("path", false, "print the config file location and exit")

	return &Command{
		Flags: fs,
		Usage: "config [--init|--path]",
		Short: "Show the effective configuration",
		Long: `DESCRIPTION:
    Prints the configuration dayboard runs with: the defaults, overridden
    by whatever the config file sets. With --init, writes the defaults to
    the config file as a starting point; an existing file is left alone.

EXAMPLES:
    # Where is the config file?
    dayboard config --path

    # Start a config file to edit
    dayboard config --init
`,
		Exec: func(o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if *initFile && *pathOnly {
				return fmt.Errorf("--init and --path cannot be combined")
			}

			path := config.Path()
			switch {
			case *pathOnly:
				o.Println(path)
				return nil
			case *initFile:
				if fsutil.Exists(path) {
					return fmt.Errorf("config file already exists: %s", path)
				}
				if err := config.Default().Save(); err != nil {
					return fmt.Errorf("writing config: %w", err)
				}
				o.Printf("✓ Wrote default config to %s\n", path)
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			o.Printf("# %s\n%s", path, data)
			return nil
		},
	}
}
