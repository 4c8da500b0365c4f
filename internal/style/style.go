package style

import (
	"hash/fnv"
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/gamut"
)

const (
	ColorLightGrey = lipgloss.Color("245")
	ColorCyan      = lipgloss.Color("63")
	ColorBrightRed = lipgloss.Color("196")
	ColorFuscia    = lipgloss.Color("170")
	ColorDarkGrey  = lipgloss.Color("241")
	ColorGrey2     = lipgloss.Color("235")
	ColorOrange    = lipgloss.Color("214")
)

const Background1 = "☖"

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorFuscia)

	// Channel list, one style per activity class.
	ChannelStyle = lipgloss.NewStyle().
			Foreground(ColorLightGrey)

	ChannelCurrentStyle = lipgloss.NewStyle().
				Bold(true).
				Reverse(true).
				Foreground(ColorCyan)

	ChannelActivityStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorOrange)

	ChannelMentionedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorBrightRed)

	ChannelListStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, true, false, false).
				BorderForeground(ColorDarkGrey).
				PaddingRight(1)

	TimeStyle = lipgloss.NewStyle().Foreground(ColorDarkGrey)

	InfoStyle = lipgloss.NewStyle().
			Faint(true)

	LinkStyle = lipgloss.NewStyle().
			Underline(true).
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorLightGrey).
			Background(ColorGrey2)

	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorFuscia)

	SubScreenStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorCyan). // Cyan border
			Background(ColorGrey2).      // Dark gray background
			Padding(1, 1)
)

var Subtle = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}

// Gradient stops are resolved RGB values. A lipgloss.Color only converts to
// RGB through the detected terminal profile.
var (
	GradientStart = hexRGB("#F25D94")
	GradientEnd   = hexRGB("#EDFF82")
	nymEnd        = hexRGB("#5EEAD4")
)

// NymColors is the palette nyms are hashed onto.
var NymColors = gamut.Blends(GradientStart, nymEnd, 24)

func hexRGB(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// NymStyle renders a sender nym in a colour that is stable for that nym.
func NymStyle(nym string) lipgloss.Style {
	h := fnv.New32a()
	_, _ = h.Write([]byte(nym))
	return lipgloss.NewStyle().Bold(true).Foreground(hexColor(NymColors[h.Sum32()%uint32(len(NymColors))]))
}

func hexColor(c color.Color) lipgloss.Color {
	cf, _ := colorful.MakeColor(c)
	return lipgloss.Color(cf.Hex())
}

func RenderSubscreen(w, h int, title, content string) string {
	return lipgloss.Place(
		w,
		h,
		lipgloss.Center,
		lipgloss.Center,
		SubScreenStyle.Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				TitleStyle.Render(title),
				content,
			),
		),
		lipgloss.WithWhitespaceChars(Background1),
		lipgloss.WithWhitespaceForeground(Subtle),
	)
}
