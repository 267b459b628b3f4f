// Package cascade generates site stylesheet from style configurations. Layers
// are emitted in fixed order, each one starts with its marker comment, and
// every declaration is important so later layers override earlier ones.
package cascade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitec/css"
	"sitec/source"
	"sitec/tree"
	"sitec/value"
)

// Layer markers, in emission order.
const (
	MarkerDefaults   = "Базовые стили"
	MarkerComponents = "Компоненты"
	MarkerAlignment  = "Выравнивание"
	MarkerModal      = "Модальные окна"
	MarkerGeneral    = "===== ГЛОБАЛЬНЫЕ СТИЛИ (general) ====="
	MarkerTags       = "===== СТИЛИ ТЕГОВ ИЗ TAG.JSON ====="
	MarkerReport     = "===== ОТЛАДОЧНЫЕ СТИЛИ (report) ====="
	MarkerCompound   = "===== СОСТАВНЫЕ СЕЛЕКТОРЫ ИЗ CSS.JSON ====="
	MarkerLayout     = "===== LAYOUT СТИЛИ ====="
	MarkerSections   = "===== СТИЛИ СЕКЦИЙ ИЗ GENERAL.JSON (перекрывают layout) ====="
	MarkerDefaultSec = "===== СТИЛИ СЕКЦИЙ ИЗ DEFAULT.JSON ====="
	MarkerIf         = "===== УСЛОВНЫЕ СТИЛИ (if) ====="
	MarkerFilter     = "===== ФИЛЬТРОВАННЫЕ СТИЛИ (filter) ====="
	MarkerDivColumn  = "===== СТИЛИ ДЛЯ КОЛОНОК (div_column) ====="
	MarkerColSyntax  = "===== СТИЛИ ДЛЯ COL: СИНТАКСИСА ====="
)

// Options of a single generation.
type Options struct {
	// Report enables debug layer and report objects_css.
	Report bool
	// Breakpoints used when configuration does not define device widths.
	Tablet string
	Mobile string
	// BuildID is put into header comment, random when empty.
	BuildID string
	// Now is header timestamp, current time when zero.
	Now time.Time
}

// Generator produces stylesheet for loaded configuration.
type Generator struct {
	cfg     *source.Configs
	emit    emitter
	devices Devices
	types   elementTypes
	opts    Options
	log     *zap.Logger
}

// New creates generator. Values resolves references and palette colors.
func New(c *source.Configs, values *value.Resolver, opts Options, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	layout := c.General.Get("layout")
	if opts.Report && c.Report.Get("layout").IsObject() {
		layout = c.Report.Get("layout")
	}
	return &Generator{
		cfg:     c,
		emit:    emitter{values: values, refs: c.General},
		devices: resolveDevices(layout, c.Default, Devices{Tablet: opts.Tablet, Mobile: opts.Mobile}),
		types:   elementTypes{objects: c.Objects},
		opts:    opts,
		log:     log.Named("cascade"),
	}
}

// Devices returns breakpoints generation uses.
func (g *Generator) Devices() Devices {
	return g.devices
}

// Generate builds the whole stylesheet.
func (g *Generator) Generate() *css.Stylesheet {
	id := g.opts.BuildID
	if id == "" {
		id = uuid.NewString()
	}
	now := g.opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	sheet := &css.Stylesheet{}
	sheet.Comment(fmt.Sprintf("CSS стили - сгенерировано автоматически, сборка %s, %s", id, now.Format(time.RFC3339)))

	g.defaults(sheet)
	g.components(sheet)

	if g.cfg.General.Len() > 0 {
		g.layer(sheet, MarkerGeneral, true, g.general)
	}
	if g.opts.Report && g.cfg.Report.Len() > 0 {
		g.layer(sheet, MarkerReport, true, g.report)
	}
	g.layer(sheet, MarkerCompound, true, g.compound)
	g.layer(sheet, MarkerLayout, true, g.layout)
	g.layer(sheet, MarkerSections, false, g.sectionColors)
	g.layer(sheet, MarkerDefaultSec, false, func(s *css.Stylesheet) {
		g.sectionTriples(s, g.cfg.Default.Get("section"))
	})
	g.layer(sheet, MarkerIf, false, g.conditional)
	g.layer(sheet, MarkerFilter, false, g.filtered)
	g.layer(sheet, MarkerDivColumn, false, g.divColumns)
	g.layer(sheet, MarkerColSyntax, false, g.colSyntax)

	g.log.Debug("Stylesheet generated",
		zap.String("build", id),
		zap.Int("items", len(sheet.Items)),
		zap.Int("rules", len(sheet.Rules())),
		zap.String("tablet", g.devices.Tablet),
		zap.String("mobile", g.devices.Mobile))
	return sheet
}

// layer runs fn on separate sheet and appends it under marker comment.
// Optional layers are dropped when they produce no rules.
func (g *Generator) layer(sheet *css.Stylesheet, marker string, always bool, fn func(*css.Stylesheet)) {
	part := &css.Stylesheet{}
	fn(part)
	if !always && part.Empty() {
		return
	}
	sheet.Comment(marker)
	sheet.Append(part)
	g.log.Debug("Layer generated", zap.String("layer", marker), zap.Int("items", len(part.Items)))
}

// sectionTypes iterates plain section keys of the css config: objects not
// named column or row, without dots, spaces or section suffix.
func sectionTypes(cfg *tree.Node) []string {
	var out []string
	for name, v := range cfg.Pairs() {
		if !v.IsObject() || name == "column" || name == "row" || !plainKey(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}
