package render

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"sitec/tree"
)

// Tables loads bd tables lazily. Every table is read at most once per build,
// failed loads are remembered too.
type Tables struct {
	dir   string
	log   *zap.Logger
	cache map[string]*tree.Node
}

// NewTables reads tables from dir. Empty dir disables loading.
func NewTables(dir string, log *zap.Logger) *Tables {
	return &Tables{dir: dir, log: log, cache: make(map[string]*tree.Node)}
}

// Load returns parsed table or nil when it is not available.
func (t *Tables) Load(name string) *tree.Node {
	if t == nil || t.dir == "" {
		return nil
	}
	if data, ok := t.cache[name]; ok {
		return data
	}
	t.cache[name] = nil

	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		t.log.Warn("Bad table name", zap.String("table", name))
		return nil
	}
	path := filepath.Join(t.dir, name+".json")
	data, err := tree.ParseFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			t.log.Debug("Table not found", zap.String("table", name), zap.String("path", path))
		} else {
			t.log.Warn("Unable to load table", zap.String("table", name), zap.Error(err))
		}
		return nil
	}
	t.log.Debug("Table loaded", zap.String("table", name), zap.Int("records", data.Len()))
	t.cache[name] = data
	return data
}

// Source describes ["bd", table, "link:...", "filter:field=value"] binding.
type Source struct {
	API    string
	Table  string
	Link   string
	Filter string

	field, value string
}

// ParseSource parses bd descriptor bound to api name.
func ParseSource(api string, v *tree.Node) (Source, bool) {
	if !isBD(v) {
		return Source{}, false
	}
	s := Source{API: api, Table: v.TextAt(1)}
	for _, opt := range v.Items()[2:] {
		o := opt.Str()
		switch {
		case strings.HasPrefix(o, "link:"):
			s.Link = o
		case strings.HasPrefix(o, "filter:"):
			s.Filter = o
			s.field, s.value = "", ""
			if f, val, found := strings.Cut(strings.TrimPrefix(o, "filter:"), "="); found && strings.TrimSpace(f) != "" {
				s.field, s.value = strings.TrimSpace(f), strings.TrimSpace(val)
			}
		}
	}
	return s, true
}

// Apply filters table records.
func (s Source) Apply(data *tree.Node) *tree.Node {
	if s.field == "" || !data.IsArray() {
		return data
	}
	out := tree.NewArray()
	for _, rec := range data.Items() {
		if rec.IsObject() && rec.Has(s.field) && rec.Get(s.field).Text() == s.value {
			out.Append(rec)
		}
	}
	return out
}

// Element renders hidden placeholder of data source followed by inlined
// table data when table is available.
func (t *Tables) Element(s Source) string {
	var b strings.Builder
	b.WriteString("<span" + attr("data-bd-api", s.API) + attr("data-bd-source", s.Table) + attr("data-bd-url", "../bd/"+s.Table+".json"))
	if s.Link != "" {
		b.WriteString(attr("data-bd-link", s.Link))
	}
	if s.Filter != "" {
		b.WriteString(attr("data-bd-filter", s.Filter))
	}
	b.WriteString(` style="display:none;"></span>`)

	if data := t.Load(s.Table); data != nil {
		b.WriteString(`<script type="application/json"` + attr("data-bd-api", s.API) + attr("data-bd-source", s.Table) + ">")
		b.WriteString(s.Apply(data).String())
		b.WriteString("</script>")
	}
	return b.String()
}
