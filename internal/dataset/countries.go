package dataset

import "slices"

// Country groupings used across the dashboard.
var (
	// GIIPS are the crisis-period peripheral economies.
	GIIPS = []string{"Greece", "Ireland", "Italy", "Portugal", "Spain"}
	// Core are the reference non-crisis economies.
	Core = []string{"Germany", "France", "Netherlands", "Austria"}
	// Countries is the fixed set of spread columns, alphabetical.
	Countries = []string{"Austria", "France", "Germany", "Greece", "Ireland", "Italy", "Netherlands", "Portugal", "Spain"}
)

// IsGIIPS reports whether country belongs to the peripheral group.
func IsGIIPS(country string) bool { return slices.Contains(GIIPS, country) }

// IsCore reports whether country belongs to the core group.
func IsCore(country string) bool { return slices.Contains(Core, country) }

// Palette holds the dashboard colors as hex strings.
type Palette struct {
	GIIPS        string
	Core         string
	Germany      string
	Greece       string
	Ireland      string
	Italy        string
	Portugal     string
	Spain        string
	France       string
	Netherlands  string
	Austria      string
	Accent       string
	Bg           string
	Surface      string
	SurfaceLight string
	Text         string
	TextMuted    string
	Positive     string
	Negative     string
	Warning      string
}

var Colors = Palette{
	GIIPS:        "#944839",
	Core:         "#184948",
	Germany:      "#022a2a",
	Greece:       "#944839",
	Ireland:      "#7f793c",
	Italy:        "#c08e39",
	Portugal:     "#a8664f",
	Spain:        "#b57845",
	France:       "#184948",
	Netherlands:  "#2d6765",
	Austria:      "#4a5d52",
	Accent:       "#c08e39",
	Bg:           "#0a1514",
	Surface:      "#0f2322",
	SurfaceLight: "#184948",
	Text:         "#f4efe8",
	TextMuted:    "#c9bfb3",
	Positive:     "#7f793c",
	Negative:     "#944839",
	Warning:      "#c08e39",
}

var CountryColors = map[string]string{
	"Greece":      Colors.Greece,
	"Ireland":     Colors.Ireland,
	"Italy":       Colors.Italy,
	"Portugal":    Colors.Portugal,
	"Spain":       Colors.Spain,
	"Germany":     Colors.Germany,
	"France":      Colors.France,
	"Netherlands": Colors.Netherlands,
	"Austria":     Colors.Austria,
}
