/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suparena/dynamoentity/schema"
)

// Options configures a generator run.
type Options struct {
	// Dir is the package directory to read. Defaults to the current directory.
	Dir string
	// Types lists the types to generate. Empty selects the types carrying the directive.
	Types []string
	// Output is the generated file path. Defaults to <dir>/<pkg>_entity_gen.go.
	Output string
	// Manifest, when set, receives the resolved schemas as YAML.
	Manifest string
	// Naming is the default naming policy for unmarked key fields.
	Naming schema.NamingPolicy
}

// BindFlags registers the generator flags on fs.
func (o *Options) BindFlags(fs *flag.FlagSet) {
	fs.Func("type", "comma-separated list of type names; defaults to types marked with "+Directive, func(v string) error {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				o.Types = append(o.Types, name)
			}
		}
		return nil
	})
	fs.StringVar(&o.Output, "output", "", "output file name; defaults to <pkg>"+GeneratedSuffix)
	fs.StringVar(&o.Manifest, "manifest", "", "write the resolved key schemas as YAML to this file")
	fs.StringVar(&o.Naming.HashKey, "hash-default", schema.DefaultNaming.HashKey, "field name used as hash key when none is marked")
	fs.StringVar(&o.Naming.SortKey, "sort-default", schema.DefaultNaming.SortKey, "field name used as sort key when none is marked")
}

// Manifest is the YAML document describing the resolved schemas of a package.
type Manifest struct {
	Package  string                 `yaml:"package"`
	Entities []*schema.EntitySchema `yaml:"entities"`
}

// Result holds the output of Generate.
type Result struct {
	Package  string
	Entities []*Entity
	Source   []byte
}

// Generate resolves the selected types of pkg and renders their companion code.
func Generate(pkg *Package, opts Options) (*Result, error) {
	decls, err := pkg.Select(opts.Types)
	if err != nil {
		return nil, err
	}
	if len(decls) == 0 {
		return nil, fmt.Errorf("no types selected in package %s, mark a type with %s or use -type", pkg.Name, Directive)
	}

	entities, err := pkg.Resolve(decls, opts.Naming)
	if err != nil {
		return nil, err
	}

	src, err := Render(pkg.Name, entities)
	if err != nil {
		return nil, err
	}
	return &Result{Package: pkg.Name, Entities: entities, Source: src}, nil
}

// ManifestOf returns the YAML manifest of a generation result.
func ManifestOf(result *Result) ([]byte, error) {
	m := Manifest{Package: result.Package}
	for _, e := range result.Entities {
		m.Entities = append(m.Entities, e.Schema)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return data, nil
}

// Run loads the package in opts.Dir, generates its companion file and writes
// the optional manifest.
func Run(opts Options, logger *slog.Logger) error {
	if opts.Dir == "" {
		opts.Dir = "."
	}

	pkg, err := LoadDir(opts.Dir)
	if err != nil {
		return err
	}

	result, err := Generate(pkg, opts)
	if err != nil {
		return err
	}

	output := opts.Output
	if output == "" {
		output = filepath.Join(opts.Dir, pkg.Name+GeneratedSuffix)
	}
	if err := os.WriteFile(output, result.Source, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	for _, e := range result.Entities {
		logger.Info("generated entity",
			slog.String("type", e.Schema.TypeName),
			slog.String("hashKey", e.Schema.HashKeyName()),
			slog.Bool("sortKey", e.Schema.HasSort()),
			slog.String("output", output),
		)
	}

	if opts.Manifest != "" {
		data, err := ManifestOf(result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.Manifest, data, 0o644); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		logger.Info("wrote manifest", slog.String("path", opts.Manifest))
	}
	return nil
}

// Main runs the generator on the package directory given as the first
// argument of the parsed flag set and exits non-zero on failure.
func Main(opts Options, fs *flag.FlagSet) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts.Dir = fs.Arg(0)
	if err := Run(opts, logger); err != nil {
		logger.Error("generation failed", slog.Any("error", err))
		os.Exit(1)
	}
}
