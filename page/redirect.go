package page

import (
	"fmt"

	"github.com/beevik/etree"
)

// DefaultRedirectTitle of the root index document.
const DefaultRedirectTitle = "DISKOKRAS CRM"

// Redirect builds root index.html which sends browser to target page, so
// that relative stylesheet and script urls of pages resolve.
func Redirect(title, target, lang string) ([]byte, error) {
	if title == "" {
		title = DefaultRedirectTitle
	}
	if lang == "" {
		lang = DefaultLanguage
	}

	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	doc.CreateDirective("DOCTYPE html")

	html := doc.CreateElement("html")
	html.CreateAttr("lang", lang)

	head := html.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "UTF-8")
	refresh := head.CreateElement("meta")
	refresh.CreateAttr("http-equiv", "refresh")
	refresh.CreateAttr("content", "0;url="+target)
	head.CreateElement("title").SetText(title)
	head.CreateElement("script").SetText(fmt.Sprintf("location.replace(%q);", target))

	link := html.CreateElement("body").CreateElement("p").CreateElement("a")
	link.CreateAttr("href", target)
	link.SetText("Перейти на главную")

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("unable to write redirect document: %w", err)
	}
	return out, nil
}
