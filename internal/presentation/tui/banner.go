package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`              _ _       _     _                         _ `, "#38bdf8"},
	{`  _____      _(_) |_ ___| |__ | |__   ___   __ _ _ __ __| |`, "#22d3ee"},
	{` / __\ \ /\ / / | __/ __| '_ \| '_ \ / _ \ / _' | '__/ _' |`, "#2dd4bf"},
	{` \__ \\ V  V /| | || (__| | | | |_) | (_) | (_| | | | (_| |`, "#34d399"},
	{` |___/ \_/\_/ |_|\__\___|_| |_|_.__/ \___/ \__,_|_|  \__,_|`, "#4ade80"},
}

// PrintBanner writes the switchboard banner to w using the terminal's
// color profile.
func PrintBanner(w io.Writer) {
	WriteBanner(w, termenv.NewOutput(w).ColorProfile())
}

// WriteBanner writes the banner with an explicit profile. termenv.Ascii
// produces plain text.
func WriteBanner(w io.Writer, p termenv.Profile) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
