package cascade

import (
	"strconv"
	"strings"

	"sitec/tree"
)

// Fallback device widths.
const (
	DefaultDesktop = "1200px"
	DefaultTablet  = "768px"
	DefaultMobile  = "320px"
)

var deviceNames = [3]string{"desktop", "tablet", "mobile"}

// Devices are breakpoint widths plus per device column settings (gap,
// flex-wrap) from layout device configuration.
type Devices struct {
	Desktop string
	Tablet  string
	Mobile  string

	settings map[string]*tree.Node
}

// Setting returns extra device setting, empty when absent.
func (d *Devices) Setting(device, name string) string {
	return d.settings[device].Get(name).Text()
}

func (d *Devices) set(device, width string) {
	switch device {
	case "desktop":
		d.Desktop = width
	case "tablet":
		d.Tablet = width
	case "mobile":
		d.Mobile = width
	}
}

// deviceWidth accepts {"width": w}, [value, unit], [w] and plain string.
func deviceWidth(v *tree.Node) string {
	switch {
	case v.IsObject():
		return v.Get("width").Text()
	case v.IsArray() && v.Len() >= 2:
		return v.TextAt(0) + v.TextAt(1)
	case v.IsArray() && v.Len() == 1:
		return v.TextAt(0)
	case v.IsString():
		return v.Str()
	}
	return ""
}

// resolveDevices reads widths from layout.device of the layout config,
// then from defaults (devices or wrapper), then uses fallbacks.
func resolveDevices(layout, defaults *tree.Node, fallback Devices) Devices {
	d := Devices{settings: map[string]*tree.Node{}}
	found := false
	if dev := layout.Get("device"); dev.IsObject() {
		for _, name := range deviceNames {
			v := dev.Get(name)
			if v.IsObject() {
				d.settings[name] = v.Without("width")
			}
			if w := deviceWidth(v); w != "" {
				d.set(name, w)
				found = true
			}
		}
	}
	if !found {
		src := defaults.Get("devices")
		if !src.IsObject() {
			src = defaults.Get("wrapper")
		}
		for _, name := range deviceNames {
			if w := deviceWidth(src.Get(name)); w != "" {
				d.set(name, w)
			}
		}
	}
	if d.Desktop == "" {
		d.Desktop = orDefault(fallback.Desktop, DefaultDesktop)
	}
	if d.Tablet == "" {
		d.Tablet = orDefault(fallback.Tablet, DefaultTablet)
	}
	if d.Mobile == "" {
		d.Mobile = orDefault(fallback.Mobile, DefaultMobile)
	}
	return d
}

// aboveMobile is the lower bound of tablet range: mobile width plus one
// pixel. Empty when mobile width is not in pixels.
func (d *Devices) aboveMobile() string {
	n, err := strconv.Atoi(strings.TrimSuffix(d.Mobile, "px"))
	if err != nil {
		return ""
	}
	return strconv.Itoa(n+1) + "px"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// startsWithRows reports whether section layout begins with row_N rather
// than column_N. Width and gap rules attach to .layout in that case.
func startsWithRows(html *tree.Node, section string) bool {
	for _, k := range html.Get(section).Keys() {
		switch {
		case strings.HasPrefix(k, "row_"):
			return true
		case strings.HasPrefix(k, "column_"):
			return false
		}
	}
	return false
}
