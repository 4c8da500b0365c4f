package style

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ramp returns size colors blended in Hcl between from and to.
func ramp(size int, from, to color.Color) []colorful.Color {
	c1, _ := colorful.MakeColor(from)
	c2, _ := colorful.MakeColor(to)

	out := make([]colorful.Color, size)
	for i := range size {
		var t float64
		if size > 1 {
			t = float64(i) / float64(size-1)
		}
		out[i] = c1.BlendHcl(c2, t)
	}
	return out
}

// Gradient renders input bold with a horizontal foreground gradient.
func Gradient(input string, from, to color.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(input)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	var o strings.Builder
	for i, c := range ramp(len(clusters), from, to) {
		o.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Clamped().Hex())).Render(clusters[i]))
	}
	return o.String()
}
