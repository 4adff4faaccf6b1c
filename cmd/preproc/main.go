//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// main package builds the standalone preprocessing driver. The engine
// itself owns no I/O or flags; this binary is the plumbing that feeds it
// files and routes the per-configuration variants to stdout, to a
// directory, or into a compressed archive.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/preproc"
	"go.uber.org/preproc/artifact"
	"go.uber.org/preproc/config"
	"go.uber.org/preproc/util/orderedmap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "preproc:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "preproc",
		Usage:           "enumerate preprocessor configurations and emit per-configuration variants",
		ArgsUsage:       "FILE ...",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "list",
				Usage: "print the enumerated configurations, one per line",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "print the variant for configuration `CFG`",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "write one variant file per configuration into `DIR`",
			},
			&cli.StringFlag{
				Name:  "archive",
				Usage: "write all variants as a compressed archive to `FILE`",
			},
			&cli.IntFlag{
				Name:  "jobs",
				Usage: "process up to `N` input files concurrently",
				Value: runtime.NumCPU(),
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "read inputs and engine options from the YAML `FILE`",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "report per-file progress on stderr",
			},
		},
		Action: run,
	}
}

// A manifest lists the inputs and engine options of one pipeline run.
type manifest struct {
	Inputs            []string `yaml:"inputs"`
	MaxConfigurations int      `yaml:"max_configurations"`
}

func loadManifest(path string) (manifest, error) {
	var m manifest
	b, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

func run(c *cli.Context) error {
	inputs := c.Args().Slice()
	opts := config.DefaultOptions()
	if path := c.String("manifest"); path != "" {
		m, err := loadManifest(path)
		if err != nil {
			return err
		}
		inputs = append(inputs, m.Inputs...)
		if m.MaxConfigurations > 0 {
			opts.MaxConfigurations = m.MaxConfigurations
		}
	}
	if len(inputs) == 0 {
		return errors.New("no input files")
	}

	// Everything printed to stdout describes exactly one translation unit.
	stdoutMode := c.Bool("list") || c.IsSet("config") ||
		(c.String("out") == "" && c.String("archive") == "")
	if stdoutMode && len(inputs) > 1 {
		return errors.New("stdout output needs exactly one input file")
	}
	if c.String("archive") != "" && len(inputs) > 1 {
		return errors.New("--archive needs exactly one input file")
	}

	if stdoutMode {
		set, err := preprocessFile(inputs[0], opts)
		if err != nil {
			return err
		}
		switch {
		case c.Bool("list"):
			for _, cfg := range set.Keys() {
				fmt.Fprintln(c.App.Writer, cfg)
			}
		case c.IsSet("config"):
			cfg := c.String("config")
			text, ok := set.Load(cfg)
			if !ok {
				return fmt.Errorf("configuration %q not enumerated for %s", cfg, inputs[0])
			}
			fmt.Fprint(c.App.Writer, text)
		default:
			fmt.Fprint(c.App.Writer, set.Value(""))
		}
		return nil
	}

	var group errgroup.Group
	group.SetLimit(c.Int("jobs"))
	for _, path := range inputs {
		path := path
		group.Go(func() error {
			return processFile(c, path, opts)
		})
	}
	return group.Wait()
}

func processFile(c *cli.Context, path string, opts config.Options) error {
	set, err := preprocessFile(path, opts)
	if err != nil {
		return err
	}

	if dir := c.String("out"); dir != "" {
		if err := writeVariants(dir, filepath.Base(path), set); err != nil {
			return err
		}
	}
	if archive := c.String("archive"); archive != "" {
		if err := writeArchive(archive, set); err != nil {
			return err
		}
	}
	if c.Bool("verbose") {
		fmt.Fprintf(c.App.ErrWriter, "preproc: %s: %d configurations\n", path, set.Len())
	}
	return nil
}

func preprocessFile(path string, opts config.Options) (*orderedmap.OrderedMap[string, string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() {
		// The engine reads the file to exhaustion; a close failure after a
		// full read carries no information worth failing the run for.
		_ = f.Close()
	}()

	return preproc.PreprocessWithOptions(f, opts), nil
}

func writeVariants(dir, base string, set *orderedmap.OrderedMap[string, string]) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	var werr error
	set.OrderedRange(func(cfg, text string) bool {
		name := variantFileName(base, cfg)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			werr = fmt.Errorf("write variant %q: %w", cfg, err)
			return false
		}
		return true
	})
	return werr
}

func writeArchive(path string, set *orderedmap.OrderedMap[string, string]) (err error) {
	vs := artifact.New()
	set.OrderedRange(func(cfg, text string) bool {
		vs.Add(cfg, text)
		return true
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := vs.Encode(f); err != nil {
		return fmt.Errorf("write archive %s: %w", path, err)
	}
	return nil
}

// variantFileName derives the output name for one variant: the input's stem,
// the sanitized configuration ("default" for the unguarded one) and the
// conventional preprocessed-source extension.
func variantFileName(base, cfg string) string {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if cfg == "" {
		return stem + ".default.i"
	}
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '-'
		}
	}, cfg)
	return stem + "." + sanitized + ".i"
}
