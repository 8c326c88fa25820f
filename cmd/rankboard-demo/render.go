package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"rankboard/leaderboard"
)

const width = 60

var (
	colorAccent = lipgloss.Color("99")
	colorGold   = lipgloss.Color("220")
	colorSilver = lipgloss.Color("252")
	colorBronze = lipgloss.Color("173")
	colorGreen  = lipgloss.Color("78")
	colorRed    = lipgloss.Color("203")
	colorGray   = lipgloss.Color("245")
	colorSubtle = lipgloss.Color("238")

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Align(lipgloss.Center).
			Width(width - 2)
	phaseStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle = lipgloss.NewStyle().Foreground(colorGray)
	okStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	errStyle   = lipgloss.NewStyle().Foreground(colorRed)
	rule       = lipgloss.NewStyle().Foreground(colorSubtle).Render(strings.Repeat("=", width))
)

func banner(lines ...string) string {
	return bannerStyle.Render(strings.Join(lines, "\n"))
}

func phase(n int, title string) string {
	return fmt.Sprintf("\n%s\n%s\n%s", rule, phaseStyle.Render(fmt.Sprintf("PHASE %d: %s", n, title)), rule)
}

func micros(ns int64) string {
	return strconv.FormatFloat(float64(ns)/1e3, 'f', 3, 64) + " µs"
}

// ordinal returns n with its English suffix: 1st, 2nd, 3rd, 4th, 11th, 21st.
func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// badge labels a rank; the podium gets medals.
func badge(rank int) string {
	switch rank {
	case 1:
		return "1st Place (Gold)"
	case 2:
		return "2nd Place (Silver)"
	case 3:
		return "3rd Place (Bronze)"
	default:
		return ordinal(rank) + " Place"
	}
}

func badgeStyle(rank int) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)
	switch rank {
	case 1:
		return base.Bold(true).Foreground(colorGold)
	case 2:
		return base.Bold(true).Foreground(colorSilver)
	case 3:
		return base.Bold(true).Foreground(colorBronze)
	default:
		return base.Foreground(colorGray)
	}
}

// standingsTable renders the board. highlight names a record to emphasise,
// typically the one just updated.
func standingsTable(standings []leaderboard.Standing, highlight string) string {
	if len(standings) == 0 {
		return mutedStyle.Render("  (empty board)")
	}

	rows := make([][]string, len(standings))
	for i, s := range standings {
		rows[i] = []string{strconv.Itoa(s.Rank), s.Name, strconv.FormatInt(s.Score, 10), badge(s.Rank)}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Headers("Rank", "Name", "Score", "Position").
		Rows(rows...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorSubtle)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(standings) {
				return cellStyle
			}
			s := standings[row]
			style := cellStyle
			if col == 3 {
				style = badgeStyle(s.Rank)
			}
			if col == 2 {
				style = style.Align(lipgloss.Right)
			}
			if s.Name == highlight {
				style = style.Reverse(true)
			}
			return style
		})
	return t.Render()
}
