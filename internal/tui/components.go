package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader returns a styled header with an optional muted subtitle,
// truncated to width.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded border around an already rendered input.
func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// renderFavoritesBar lists favorites with their quick-jump digits. The
// current term is highlighted.
func renderFavoritesBar(favorites []string, current string, width int) string {
	if len(favorites) == 0 {
		return renderMuted("☆ " + MsgNoFavorites)
	}
	parts := make([]string, 0, len(favorites))
	for i, fav := range favorites {
		label := fav
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, fav)
		}
		if fav == current {
			parts = append(parts, ActiveFavStyle.Render("★ "+label))
		} else {
			parts = append(parts, FavoriteStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, SeparatorStyle.Render(" │ ")))
}

// renderSettingsModal draws the favorites manager over the feed.
func renderSettingsModal(term string, favorites []string, cursor, width int) string {
	modalWidth := (width * 3) / 5
	if modalWidth < 30 {
		modalWidth = width - 4
	}

	rows := []string{
		TitleStyle.Render("› settings"),
		"",
		ModalTextStyle.Render("Current: r/" + term),
		"",
	}
	if len(favorites) == 0 {
		rows = append(rows, renderMuted(MsgNoFavorites))
	}
	for i, fav := range favorites {
		line := truncateEnd("r/"+fav, modalWidth-4)
		if i == cursor {
			rows = append(rows, ModalSelectedStyle.Render(" "+line+" "))
		} else {
			rows = append(rows, ModalTextStyle.Render(" "+line+" "))
		}
	}
	rows = append(rows, "", renderHelp("enter: load • x: remove • esc: close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 2).
		Width(modalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// truncateEnd shortens s to max runes, ending with an ellipsis.
func truncateEnd(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}
