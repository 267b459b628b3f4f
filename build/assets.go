package build

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sitec/source"
)

// copied lists asset directories moved to destination as is, with accepted
// extensions.
var copied = []struct {
	dir  string
	exts []string
}{
	{"php", []string{".php"}},
	{"bd_local", []string{".json"}},
	{"button_json", []string{".json"}},
	{"save_bd", []string{".json", ".php", ".sql"}},
}

const (
	// viewTable is table viewer served from owner/bd, two levels below root.
	viewTable        = "view_table.php"
	viewTableInclude = "__DIR__ . '/../save_bd/"
)

// files lists regular non ignored files of source sub directory in natural
// order, absent directory has no files.
func (b *builder) files(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(b.opts.Source, dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || source.Ignored(e.Name()) {
			continue
		}
		if len(exts) > 0 && !slices.Contains(exts, filepath.Ext(e.Name())) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Sort(natural.StringSlice(out))
	return out, nil
}

func copyFile(dst, src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// assets copies images and server side files. All failed copies are
// reported together.
func (b *builder) assets() error {
	errs := b.images()
	for _, c := range copied {
		names, err := b.files(c.dir, c.exts...)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, name := range names {
			if err := copyFile(b.dst(c.dir, name), filepath.Join(b.opts.Source, c.dir, name)); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			b.res.Assets++
		}
		if len(names) > 0 {
			b.log.Debug("Assets copied", zap.String("dir", c.dir), zap.Int("count", len(names)))
		}
	}
	return multierr.Append(errs, b.viewTable())
}

// images copies img directory. Content is sniffed so that misplaced files
// are noticed, they are still copied.
func (b *builder) images() error {
	names, err := b.files("img")
	if err != nil {
		return err
	}
	var errs error
	for _, name := range names {
		src := filepath.Join(b.opts.Source, "img", name)
		if head, err := readHead(src, 262); err == nil && !filetype.IsImage(head) && filepath.Ext(name) != ".svg" {
			kind, _ := filetype.Match(head)
			b.log.Warn("Not an image in img directory", zap.String("file", name), zap.String("type", kind.MIME.Value))
		}
		if err := copyFile(b.dst("img", name), src); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		b.res.Assets++
	}
	return errs
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}

// viewTable publishes table viewer under owner/bd with save_bd include path
// adjusted for deeper location.
func (b *builder) viewTable() error {
	data, err := os.ReadFile(filepath.Join(b.opts.Source, "php", viewTable))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	data = bytes.ReplaceAll(data, []byte(viewTableInclude), []byte("__DIR__ . '/../../save_bd/"))
	return b.write(data, "owner", "bd", viewTable)
}

// scripts concatenates js sources into single js/script.js, each file
// preceded by its name.
func (b *builder) scripts() error {
	names, err := b.files("js", ".js")
	if err != nil || len(names) == 0 {
		return err
	}
	buf := new(bytes.Buffer)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(b.opts.Source, "js", name))
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "// %s\n", name)
		buf.Write(data)
		buf.WriteString("\n\n")
	}
	return b.write(buf.Bytes(), "js", "script.js")
}
