package playlist

import (
	"fmt"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rmachado/redflix/internal/models"
)

// DefaultGroup is used when an entry carries no group-title attribute.
const DefaultGroup = "Geral"

var (
	reTvgLogo   = regexp.MustCompile(`tvg-logo="([^"]+)"`)
	reGroup     = regexp.MustCompile(`group-title="([^"]+)"`)
	reCommaName = regexp.MustCompile(`,(.+)$`)
)

// Parse converts an M3U document into content items. Entries are pairs of
// lines: an #EXTINF info line followed by a non-comment URL line. Anything
// else is ignored; an info line without a usable URL line is skipped.
func Parse(text string) []models.ContentItem {
	lines := strings.Split(text, "\n")
	var items []models.ContentItem

	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], "#EXTINF:") {
			continue
		}
		infoLine := lines[i]
		var urlLine string
		if i+1 < len(lines) {
			urlLine = strings.TrimSpace(lines[i+1])
		}
		if urlLine == "" || strings.HasPrefix(urlLine, "#") {
			continue
		}

		title := "Untitled"
		if m := reCommaName.FindStringSubmatch(infoLine); m != nil {
			title = strings.ReplaceAll(strings.TrimSpace(m[1]), `"`, "")
		}

		thumbnail := placeholderThumbnail(title)
		if m := reTvgLogo.FindStringSubmatch(infoLine); m != nil {
			thumbnail = m[1]
		}

		group := DefaultGroup
		if m := reGroup.FindStringSubmatch(infoLine); m != nil {
			group = strings.ReplaceAll(m[1], `"`, "")
		}

		mediaType := ClassifyGroup(group)

		item := models.ContentItem{
			ID:           HashID(urlLine),
			Title:        title,
			ThumbnailURL: thumbnail,
			VideoURL:     urlLine,
			Genres:       []string{group},
			MediaType:    mediaType,
			Description:  fmt.Sprintf("Conteúdo da categoria: %s. Assista agora.", group),
			Match:        85 + rand.Intn(15),
			Year:         time.Now().Year() - rand.Intn(5),
			Rating:       "14",
		}
		if mediaType == models.MediaTypeMovie {
			item.Duration = fmt.Sprintf("%dm", 90+rand.Intn(60))
		} else {
			item.Duration = "Ao Vivo"
		}
		items = append(items, item)
	}
	return items
}

// ClassifyGroup maps a group-title to a media type: groups naming movies
// ("filme"/"movie") are movies, everything else counts as tv.
func ClassifyGroup(group string) models.MediaType {
	lower := strings.ToLower(group)
	if strings.Contains(lower, "filme") || strings.Contains(lower, "movie") {
		return models.MediaTypeMovie
	}
	return models.MediaTypeTV
}

// IsLiveChannel reports whether a tv-classified item belongs to a live
// channel group rather than a series group.
func IsLiveChannel(item models.ContentItem) bool {
	if item.MediaType != models.MediaTypeTV {
		return false
	}
	for _, g := range item.Genres {
		lower := strings.ToLower(g)
		if strings.Contains(lower, "canais") || strings.Contains(lower, "channel") {
			return true
		}
	}
	return false
}

// HashID derives a stable non-negative ID from the media URL. It mirrors the
// classic JS polynomial hash (h = h*31 + code unit, wrapped to int32) so IDs
// survive re-syncs of an unchanged playlist.
func HashID(s string) int64 {
	var h int32
	for _, r := range s {
		h = h<<5 - h + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

func placeholderThumbnail(title string) string {
	short := title
	// Truncate on runes, not bytes, so accented titles are never cut mid-character.
	if runes := []rune(short); len(runes) > 15 {
		short = string(runes[:15])
	}
	return "https://placehold.co/500x281/141414/FFF?text=" + url.QueryEscape(short)
}
