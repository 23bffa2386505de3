// Package banner prints the application title.
package banner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/thirukguru/aws-wastesweep/shared/ansi"
	"github.com/thirukguru/aws-wastesweep/shared/console"
	"golang.org/x/term"
)

const (
	colorEnv     = "AWS_WASTESWEEP_BANNER_COLOR"
	defaultWidth = 80
	reset        = "\x1b[0m"
)

type color struct {
	name string
	code string
}

var palette = []color{
	{"AmazonOrange", "\x1b[38;2;255;153;0m"},
	{"DollarGreen", "\x1b[38;2;37;211;102m"},
	{"AlertRed", "\x1b[38;2;229;9;20m"},
	{"SkyBlue", "\x1b[38;2;0;175;240m"},
	{"White", "\x1b[38;2;255;255;255m"},
}

const (
	defaultColor        = 1
	blueBackgroundColor = 4
)

var glyphs = map[rune][6]string{
	'W': {
		"██╗    ██╗",
		"██║    ██║",
		"██║ █╗ ██║",
		"██║███╗██║",
		"╚███╔███╔╝",
		" ╚══╝╚══╝ ",
	},
	'A': {
		" █████╗ ",
		"██╔══██╗",
		"███████║",
		"██╔══██║",
		"██║  ██║",
		"╚═╝  ╚═╝",
	},
	'S': {
		"███████╗",
		"██╔════╝",
		"███████╗",
		"╚════██║",
		"███████║",
		"╚══════╝",
	},
	'T': {
		"████████╗",
		"╚══██╔══╝",
		"   ██║   ",
		"   ██║   ",
		"   ██║   ",
		"   ╚═╝   ",
	},
	'E': {
		"███████╗",
		"██╔════╝",
		"█████╗  ",
		"██╔══╝  ",
		"███████╗",
		"╚══════╝",
	},
	'P': {
		"██████╗ ",
		"██╔══██╗",
		"██████╔╝",
		"██╔═══╝ ",
		"██║     ",
		"╚═╝     ",
	},
}

// DrawBannerTitle prints the application title banner to stdout.
func DrawBannerTitle() {
	ansi.EnableANSI()

	width := defaultWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}

	Draw(os.Stdout, width, titleColor().code)
}

// Draw writes the title centered in width columns using the given color sequence.
func Draw(w io.Writer, width int, colorCode string) {
	fmt.Fprint(w, colorCode)
	for _, line := range TitleLines("WASTESWEEP") {
		if pad := (width - utf8.RuneCountInString(line)) / 2; pad > 0 {
			fmt.Fprint(w, strings.Repeat(" ", pad))
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprint(w, reset)
}

// TitleLines renders text in block letters. Runes without a glyph are skipped.
func TitleLines(text string) []string {
	var rows [6]strings.Builder
	for _, r := range strings.ToUpper(text) {
		g, ok := glyphs[r]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i].WriteString(g[i])
			rows[i].WriteByte(' ')
		}
	}

	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = strings.TrimRight(rows[i].String(), " ")
	}
	return lines
}

func titleColor() color {
	if c, ok := colorFromEnv(os.Getenv(colorEnv)); ok {
		return c
	}

	if console.IsBlueBackground() {
		return palette[blueBackgroundColor]
	}

	return palette[defaultColor]
}

func colorFromEnv(raw string) (color, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return color{}, false
	}

	for _, c := range palette {
		if strings.EqualFold(raw, c.name) {
			return c, true
		}
	}

	return color{}, false
}
