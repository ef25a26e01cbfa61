package client

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ItemsPerPage is the default page size
const ItemsPerPage = 24

// SortOption selects the ordering of a browsed list
type SortOption string

const (
	SortScoreDesc SortOption = "score_desc"
	SortAZ        SortOption = "az"
	SortNewest    SortOption = "newest"
)

// ParseSort validates a sort option name. Empty selects SortScoreDesc.
func ParseSort(s string) (SortOption, error) {
	switch opt := SortOption(s); opt {
	case "":
		return SortScoreDesc, nil
	case SortScoreDesc, SortAZ, SortNewest:
		return opt, nil
	default:
		return "", fmt.Errorf("unknown sort %q: must be one of %s, %s, %s", s, SortScoreDesc, SortAZ, SortNewest)
	}
}

// AllYears disables the release year filter
const AllYears = "all"

// Filter narrows and orders a game list
type Filter struct {
	Search      string
	Genre       string
	MinScore    int
	Sort        SortOption
	ReleaseYear string
}

// Page is one page of a browsed list
type Page struct {
	Games        []Game `json:"games"`
	CurrentPage  int    `json:"currentPage"`
	ItemsPerPage int    `json:"itemsPerPage"`
	TotalItems   int    `json:"totalItems"`
	TotalPages   int    `json:"totalPages"`
}

// Browse filters, sorts and paginates games. page is clamped to the
// available range and perPage defaults to ItemsPerPage.
func Browse(games []Game, f Filter, page, perPage int) Page {
	return Paginate(SortGames(FilterGames(games, f), f.Sort), page, perPage)
}

// FilterGames returns the games matching every set criterion of f
func FilterGames(games []Game, f Filter) []Game {
	q := strings.ToLower(f.Search)
	result := make([]Game, 0, len(games))

	for _, g := range games {
		if q != "" && !strings.Contains(strings.ToLower(g.Title), q) {
			continue
		}
		if f.Genre != "" && !slices.Contains(g.Genres, f.Genre) {
			continue
		}
		if f.ReleaseYear != "" && f.ReleaseYear != AllYears {
			year, ok := ReleaseYear(g.ReleaseDate)
			if !ok || year != f.ReleaseYear {
				continue
			}
		}
		if f.MinScore > 0 && g.scoreValue(0) < f.MinScore {
			continue
		}
		result = append(result, g)
	}
	return result
}

// SortGames returns a sorted copy of games. Unknown options sort by score.
func SortGames(games []Game, by SortOption) []Game {
	sorted := slices.Clone(games)

	switch by {
	case SortAZ:
		col := collate.New(language.English, collate.Loose)
		sort.SliceStable(sorted, func(i, j int) bool {
			return col.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	case SortNewest:
		// release dates are ISO-8601, so string order is date order
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].ReleaseDate > sorted[j].ReleaseDate
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].scoreValue(-1) > sorted[j].scoreValue(-1)
		})
	}
	return sorted
}

// Paginate slices one page out of games
func Paginate(games []Game, page, perPage int) Page {
	if perPage <= 0 {
		perPage = ItemsPerPage
	}

	total := len(games)
	totalPages := (total + perPage - 1) / perPage
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	return Page{
		Games:        games[start:end],
		CurrentPage:  page,
		ItemsPerPage: perPage,
		TotalItems:   total,
		TotalPages:   totalPages,
	}
}

// Genres returns the distinct genres of games, sorted
func Genres(games []Game) []string {
	seen := make(map[string]struct{})
	for _, g := range games {
		for _, genre := range g.Genres {
			seen[genre] = struct{}{}
		}
	}

	genres := make([]string, 0, len(seen))
	for genre := range seen {
		genres = append(genres, genre)
	}
	sort.Strings(genres)
	return genres
}

// Years returns the distinct release years of games, newest first
func Years(games []Game) []string {
	seen := make(map[string]struct{})
	for _, g := range games {
		if year, ok := ReleaseYear(g.ReleaseDate); ok {
			seen[year] = struct{}{}
		}
	}

	years := make([]string, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Slice(years, func(i, j int) bool {
		a, _ := strconv.Atoi(years[i])
		b, _ := strconv.Atoi(years[j])
		return a > b
	})
	return years
}

// ReleaseYear extracts the year of a release date string
func ReleaseYear(date string) (string, bool) {
	if date == "" {
		return "", false
	}
	if t, err := dateparse.ParseAny(date); err == nil {
		return strconv.Itoa(t.UTC().Year()), true
	}
	// ISO dates the parser rejects still start with the year
	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil && year > 0 {
			return date[:4], true
		}
	}
	return "", false
}
