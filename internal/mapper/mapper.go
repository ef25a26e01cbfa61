// Package mapper converts display catalog products into game cards.
package mapper

import (
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/upstream"
)

// UnknownTitle is used for products without a localized title
const UnknownTitle = "Unknown Game"

// ToGameCard maps one product. It never fails: every missing field falls
// back to its empty value.
func ToGameCard(p upstream.Product) domain.GameCard {
	var localized *upstream.LocalizedProperty
	if len(p.LocalizedProperties) > 0 {
		localized = &p.LocalizedProperties[0]
	}
	var market *upstream.MarketProperty
	if len(p.MarketProperties) > 0 {
		market = &p.MarketProperties[0]
	}

	card := domain.GameCard{
		ID:          p.ProductID,
		Title:       UnknownTitle,
		Platforms:   platforms(p.Properties),
		Genres:      genres(p.Properties),
		ReleaseDate: releaseDate(market, p.Properties),
	}

	if localized != nil {
		if localized.ProductTitle != "" {
			card.Title = localized.ProductTitle
		}
		card.Description = firstNonEmpty(localized.ShortDescription, localized.ProductDescription)
		card.CoverURL = coverURL(localized.Images)
	}

	return card
}

// ToGameCards maps every product, preserving order
func ToGameCards(products []upstream.Product) []domain.GameCard {
	cards := make([]domain.GameCard, len(products))
	for i, p := range products {
		cards[i] = ToGameCard(p)
	}
	return cards
}

func coverURL(images []upstream.Image) *string {
	var poster, boxArt string
	for _, img := range images {
		switch img.ImagePurpose {
		case upstream.ImagePurposePoster:
			if poster == "" {
				poster = img.URI
			}
		case upstream.ImagePurposeBoxArt:
			if boxArt == "" {
				boxArt = img.URI
			}
		}
	}

	var first string
	if len(images) > 0 {
		first = images[0].URI
	}

	uri := firstNonEmpty(poster, boxArt, first)
	if uri == "" {
		return nil
	}
	return &uri
}

func platforms(props *upstream.ProductProperties) []string {
	result := []string{}
	if props == nil {
		return result
	}

	seen := make(map[string]bool, 3)
	add := func(label string) {
		if !seen[label] {
			seen[label] = true
			result = append(result, label)
		}
	}

	for _, attr := range props.Attributes {
		switch attr.Name {
		case upstream.AttrXboxOne, upstream.AttrXboxSeriesX:
			add(domain.LabelConsole)
		case upstream.AttrWindows:
			add(domain.LabelPC)
		case upstream.AttrXboxLiveGoldReq:
			if attr.Minimum != nil && *attr.Minimum == 0 {
				add(domain.LabelCloud)
			}
		}
	}
	return result
}

func genres(props *upstream.ProductProperties) []string {
	if props == nil || props.Categories == nil {
		return []string{}
	}
	out := make([]string, len(props.Categories))
	copy(out, props.Categories)
	return out
}

func releaseDate(market *upstream.MarketProperty, props *upstream.ProductProperties) *string {
	var candidates []string
	if market != nil {
		candidates = append(candidates, market.ReleaseDate, market.OriginalReleaseDate)
	}
	if props != nil {
		candidates = append(candidates, props.ReleaseDate)
	}
	if d := firstNonEmpty(candidates...); d != "" {
		return &d
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
