// Package build runs the whole site compilation: configs are loaded and
// validated, then pages, sections, stylesheet, scripts and assets are written
// into destination directory.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sitec/cascade"
	"sitec/color"
	"sitec/config"
	"sitec/page"
	"sitec/render"
	"sitec/source"
	"sitec/value"
)

// ErrConfiguration marks problems with source configs, nothing is written
// when it is returned.
var ErrConfiguration = errors.New("configuration error")

// Options of a single build.
type Options struct {
	Source      string
	Destination string
	// Clean removes destination before build.
	Clean bool
	// Report adds debug layer to stylesheet.
	Report        bool
	Language      string
	APIPrefix     string
	RedirectTitle string
	Tablet        string
	Mobile        string
	// Version is appended to stylesheet and script urls.
	Version string
	BuildID string
	Now     time.Time
}

// Result describes produced tree.
type Result struct {
	Pages      []string
	Sections   []string
	Forms      []string
	Assets     int
	Stylesheet string
	// Configs are loaded configs with includes resolved.
	Configs *source.Configs
}

// output layout
var outputDirs = []string{
	"pages", "sections", "css", "js", "img", "php", "bd_local", "button_json",
	filepath.Join("data", "tmp"),
}

type builder struct {
	opts Options
	cfg  *source.Configs
	log  *zap.Logger
	res  *Result
}

// Build compiles source tree into destination. Only configuration and I/O
// problems are returned, rendering problems are logged.
func Build(ctx context.Context, opts Options, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &builder{opts: opts, log: log.Named("build"), res: &Result{}}

	cfg, err := source.Load(opts.Source, log.Named("source"))
	if cfg == nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err = multierr.Append(err, source.Validate(cfg)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	in, err := source.ResolveIncludes(cfg.Objects, source.IncludeLoader(opts.Source))
	for _, e := range multierr.Errors(err) {
		b.log.Warn("Include dropped", zap.Error(e))
	}
	b.cfg = cfg.WithIncludes(in)
	b.res.Configs = b.cfg

	steps := []struct {
		name string
		fn   func() error
	}{
		{"prepare destination", b.prepare},
		{"copy assets", b.assets},
		{"scripts", b.scripts},
		{"pages", b.pages},
		{"stylesheet", b.stylesheet},
		{"forms", b.forms},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.fn(); err != nil {
			return nil, fmt.Errorf("unable to %s: %w", s.name, err)
		}
	}
	return b.res, nil
}

func (b *builder) dst(rel ...string) string {
	return filepath.Join(append([]string{b.opts.Destination}, rel...)...)
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (b *builder) prepare() error {
	src, err := filepath.Abs(b.opts.Source)
	if err != nil {
		return err
	}
	dst, err := filepath.Abs(b.opts.Destination)
	if err != nil {
		return err
	}
	if within(dst, src) || within(src, dst) {
		return fmt.Errorf("source %s and destination %s overlap", src, dst)
	}

	if b.opts.Clean {
		if err := os.RemoveAll(dst); err != nil {
			// files are overwritten anyway
			b.log.Warn("Unable to remove old destination, overwriting", zap.String("dir", dst), zap.Error(err))
		}
	}
	for _, d := range outputDirs {
		if err := os.MkdirAll(b.dst(d), 0755); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) write(data []byte, rel ...string) error {
	path := b.dst(rel...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	b.log.Debug("File written", zap.String("file", path), zap.Int("size", len(data)))
	return nil
}

// pages renders sections, every page of pages config and root redirect.
func (b *builder) pages() error {
	tables := render.NewTables(filepath.Join(b.opts.Source, "bd"), b.log.Named("tables"))
	gen, err := page.New(b.cfg, tables, page.Options{
		Language:  b.opts.Language,
		APIPrefix: b.opts.APIPrefix,
		Version:   b.opts.Version,
		Now:       b.opts.Now,
	}, b.log)
	if err != nil {
		return err
	}

	for _, s := range gen.Sections() {
		name := config.CleanFileName(s.Name) + ".html"
		if err := b.write([]byte(s.HTML), "sections", name); err != nil {
			return err
		}
		b.res.Sections = append(b.res.Sections, name)
	}

	var errs error
	for _, name := range b.cfg.Pages.Keys() {
		html, err := gen.Page(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		file := config.CleanFileName(name) + ".html"
		if err := b.write([]byte(html), "pages", file); err != nil {
			return err
		}
		b.res.Pages = append(b.res.Pages, file)
	}
	if errs != nil {
		return errs
	}

	target := "index"
	if !b.cfg.Pages.Has(target) {
		target = b.cfg.Pages.Keys()[0]
	}
	redirect, err := page.Redirect(b.opts.RedirectTitle, "pages/"+config.CleanFileName(target)+".html", b.opts.Language)
	if err != nil {
		return err
	}
	return b.write(redirect, "index.html")
}

func (b *builder) stylesheet() error {
	gen := cascade.New(b.cfg, value.New(color.NewLibrary(b.cfg.Colors)), cascade.Options{
		Report:  b.opts.Report,
		Tablet:  b.opts.Tablet,
		Mobile:  b.opts.Mobile,
		BuildID: b.opts.BuildID,
		Now:     b.opts.Now,
	}, b.log)
	sheet := gen.Generate()

	path := b.dst("css", "style.css")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := sheet.WriteTo(f)
	if err = multierr.Append(err, f.Close()); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	b.log.Debug("Stylesheet written", zap.String("file", path), zap.Int64("size", n), zap.Bool("report", b.opts.Report))
	b.res.Stylesheet = path
	return nil
}
