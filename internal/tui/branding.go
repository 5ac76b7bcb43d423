package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gifr/internal/config"
)

const AppName = "gifr"

const Tagline = "Animated Media Feed"

var LogoLines = []string{
	" ▄█████▄ ██ ▄█████ ▄████▄",
	"██▀   ▀▀ ██ ██▀    ██  ▀█",
	"██  ▄▄▄  ██ ██▀▀▀  █████▀",
	"██▄  ▀██ ██ ██     ██ ▀█▄",
	" ▀█████▀ ██ ██     ██   ██",
}

const CompactLogo = `gifr ›`

var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF4500"),
	lipgloss.Color("#FF8717"),
	lipgloss.Color("#FFD635"),
	lipgloss.Color("#7193FF"),
	lipgloss.Color("#FF4500"),
}

var (
	PrimaryColor   = lipgloss.Color("#FF4500")
	SecondaryColor = lipgloss.Color("#7193FF")
	AccentColor    = lipgloss.Color("#FFD635")

	BackgroundColor = lipgloss.Color("#1A1A1B")
	SurfaceColor    = lipgloss.Color("#272729")
	TextColor       = lipgloss.Color("#D7DADC")
	MutedColor      = lipgloss.Color("#818384")

	LoadingColor = lipgloss.Color("#FFD635")
	ErrorColor   = lipgloss.Color("#EF4444")
	SuccessColor = lipgloss.Color("#46D160")
)

var (
	LogoStyle          lipgloss.Style
	TitleStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	StatusBarStyle     lipgloss.Style
	LoadingItemStyle   lipgloss.Style
	LoadedItemStyle    lipgloss.Style
	HelpStyle          lipgloss.Style
	ModalTextStyle     lipgloss.Style
	ModalSelectedStyle lipgloss.Style
	FavoriteStyle      lipgloss.Style
	ActiveFavStyle     lipgloss.Style
	SeparatorStyle     lipgloss.Style
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	EmptyStyle         = lipgloss.NewStyle()
)

func init() {
	buildStyles()
}

// ApplyTheme overrides the palette with any colors set in the config and
// rebuilds the derived styles. Empty entries keep the built-in color.
func ApplyTheme(colors config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, colors.Primary)
	set(&SecondaryColor, colors.Secondary)
	set(&AccentColor, colors.Accent)
	set(&TextColor, colors.Text)
	set(&MutedColor, colors.Muted)
	set(&ErrorColor, colors.Error)
	set(&SuccessColor, colors.Success)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	LoadingItemStyle = lipgloss.NewStyle().
		Foreground(LoadingColor)

	LoadedItemStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	ModalTextStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	ModalSelectedStyle = lipgloss.NewStyle().
		Foreground(BackgroundColor).
		Background(AccentColor).
		Bold(true)

	FavoriteStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	ActiveFavStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(LoadingColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

func GetWelcomeMessage(term string) string {
	return GetCompactBanner(fmt.Sprintf("Loading r/%s…", term))
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// BannerString renders the bordered startup banner.
func BannerString(version string) string {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	tagline := "    " + Tagline
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline += " " + version
	}
	lines = append(lines, tagline)

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	border := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	boxed := lipgloss.NewStyle().
		Border(border).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1).
		Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	separator := lipgloss.NewStyle().
		Foreground(AccentColor).
		Render("▶ ▷ ▶ ▷ ▶")

	centered := lipgloss.NewStyle().Width(70).Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Left,
		centered.Render(boxed),
		centered.MarginBottom(1).Render(separator),
	)
}

func ShowBanner(version string) {
	fmt.Println(BannerString(version))
}
