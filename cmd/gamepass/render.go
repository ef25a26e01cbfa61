package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/quantmind-br/gamepass-catalog/internal/client"
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
)

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#107C10", Dark: "#52B043"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	warnColor    = lipgloss.AdaptiveColor{Light: "#FF9500", Dark: "#FFAA33"}
	goodColor    = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02BF87"}
	badColor     = lipgloss.AdaptiveColor{Light: "#FE5F86", Dark: "#FE5F86"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	warnStyle = lipgloss.NewStyle().Foreground(warnColor)
)

// maxTitleWidth truncates long titles in tables
const maxTitleWidth = 48

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// renderCards prints upstream game cards
func renderCards(w io.Writer, cards []domain.GameCard) {
	t := newTable("ID", "TITLE", "PLATFORMS", "GENRES", "RELEASED")
	for _, c := range cards {
		released := ""
		if c.ReleaseDate != nil {
			if year, ok := client.ReleaseYear(*c.ReleaseDate); ok {
				released = year
			}
		}
		t.Row(c.ID, truncate(c.Title, maxTitleWidth), strings.Join(c.Platforms, ", "), strings.Join(c.Genres, ", "), released)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s games", humanize.Comma(int64(len(cards))))))
}

// renderPage prints one browsed page of games
func renderPage(w io.Writer, page client.Page) {
	offset := (page.CurrentPage - 1) * page.ItemsPerPage
	t := newTable("#", "TITLE", "SCORE", "PLATFORMS", "GENRES", "YEAR")
	for i, g := range page.Games {
		year, _ := client.ReleaseYear(g.ReleaseDate)
		t.Row(
			strconv.Itoa(offset+i+1),
			truncate(g.Title, maxTitleWidth),
			renderScore(g.Score),
			strings.Join(g.Platforms, ", "),
			strings.Join(g.Genres, ", "),
			year,
		)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Page %d of %d (%s games)",
		page.CurrentPage, page.TotalPages, humanize.Comma(int64(page.TotalItems)))))
}

func renderScore(s *client.Score) string {
	if s == nil {
		return "-"
	}
	switch s.Status {
	case client.ScoreLoading:
		return mutedStyle.Render("...")
	case client.ScoreNotFound:
		return mutedStyle.Render("n/a")
	}
	if s.Value == nil {
		return "-"
	}

	v := *s.Value
	style := lipgloss.NewStyle().Foreground(warnColor)
	switch {
	case v >= 75:
		style = lipgloss.NewStyle().Foreground(goodColor)
	case v < 50:
		style = lipgloss.NewStyle().Foreground(badColor)
	}
	return style.Render(strconv.Itoa(v))
}

// sourceLine describes where a catalog load came from
func sourceLine(res *client.Result, now time.Time) string {
	switch {
	case res.Fallback:
		return warnStyle.Render("API unavailable, showing sample data")
	case res.FromCache:
		fetched := now.Add(-time.Duration(res.AgeMinutes) * time.Minute)
		return mutedStyle.Render("From local cache, updated " + humanize.RelTime(fetched, now, "ago", "from now"))
	default:
		return mutedStyle.Render("Fresh from the API")
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
