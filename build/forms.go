package build

import (
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"sitec/render"
	"sitec/tree"
)

// forms writes save templates for forms submitted by button_json: every
// field name maps to empty string.
func (b *builder) forms() error {
	forms := render.Forms(b.cfg.Objects)
	if len(forms) == 0 {
		return nil
	}
	for _, f := range forms {
		tmpl := tree.NewObject()
		for _, field := range f.Fields {
			tmpl.Set(field, tree.NewString(""))
		}
		name := "form_" + slug.Make(f.Class) + "_db_paths.json"
		if err := b.write([]byte(tmpl.String()), "send_form_json", name); err != nil {
			return err
		}
		b.res.Forms = append(b.res.Forms, name)
	}
	b.log.Debug("Form templates written", zap.Strings("files", b.res.Forms))
	return nil
}
