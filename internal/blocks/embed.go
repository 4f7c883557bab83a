package blocks

import (
	"fmt"
	htmlstd "html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	embedAspectLandscape = "16:9"
)

var (
	embedTimePattern = regexp.MustCompile(`(?i)(\d+)(h|m|s)`) // YouTube t=1h2m3s
	vimeoIDPattern   = regexp.MustCompile(`^\d+$`)
)

type videoEmbed struct {
	Provider string
	Source   string
	EmbedURL string
	Aspect   string
}

// parseVideoEmbed recognises YouTube and Vimeo URLs and builds their player URL.
func parseVideoEmbed(raw string) (videoEmbed, bool) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "<")
	trimmed = strings.TrimSuffix(trimmed, ">")
	trimmed = normalizeVideoURL(trimmed)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed == nil {
		return videoEmbed{}, false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return videoEmbed{}, false
	}

	if parsed.Hostname() == "" {
		return videoEmbed{}, false
	}

	if embed, ok := parseYouTubeEmbed(parsed, trimmed); ok {
		return embed, true
	}
	if embed, ok := parseVimeoEmbed(parsed, trimmed); ok {
		return embed, true
	}
	return videoEmbed{}, false
}

func normalizeVideoURL(raw string) string {
	if raw == "" {
		return raw
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	knownPrefixes := []string{
		"youtube.com/",
		"www.youtube.com/",
		"youtu.be/",
		"vimeo.com/",
		"www.vimeo.com/",
		"player.vimeo.com/",
	}
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "https://" + raw
		}
	}
	return raw
}

func parseYouTubeEmbed(u *url.URL, source string) (videoEmbed, bool) {
	host := strings.ToLower(u.Hostname())
	var videoID string

	switch {
	case host == "youtu.be":
		videoID = strings.Trim(strings.TrimPrefix(u.Path, "/"), "/")
	case isHostOrSubdomain(host, "youtube.com") || isHostOrSubdomain(host, "youtube-nocookie.com"):
		path := strings.Trim(u.Path, "/")
		switch {
		case path == "watch":
			videoID = u.Query().Get("v")
		case strings.HasPrefix(path, "shorts/"):
			videoID = strings.TrimPrefix(path, "shorts/")
		case strings.HasPrefix(path, "embed/"):
			videoID = strings.TrimPrefix(path, "embed/")
		case strings.HasPrefix(path, "live/"):
			videoID = strings.TrimPrefix(path, "live/")
		}
	default:
		return videoEmbed{}, false
	}
	if strings.Contains(videoID, "/") {
		videoID = strings.Split(videoID, "/")[0]
	}
	if videoID == "" {
		return videoEmbed{}, false
	}

	embedValues := url.Values{}
	embedValues.Set("rel", "0")
	embedValues.Set("modestbranding", "1")
	embedValues.Set("playsinline", "1")
	if start := parseYouTubeStart(u); start > 0 {
		embedValues.Set("start", strconv.Itoa(start))
	}

	return videoEmbed{
		Provider: "youtube",
		Source:   source,
		EmbedURL: fmt.Sprintf("https://www.youtube-nocookie.com/embed/%s?%s", url.PathEscape(videoID), embedValues.Encode()),
		Aspect:   embedAspectLandscape,
	}, true
}

func parseYouTubeStart(u *url.URL) int {
	query := u.Query()
	if value := query.Get("start"); value != "" {
		return parseYouTubeTime(value)
	}
	if value := query.Get("t"); value != "" {
		return parseYouTubeTime(value)
	}
	return 0
}

func parseYouTubeTime(value string) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	if onlyDigits(trimmed) {
		seconds, err := strconv.Atoi(trimmed)
		if err == nil && seconds > 0 {
			return seconds
		}
		return 0
	}

	total := 0
	for _, match := range embedTimePattern.FindAllStringSubmatch(trimmed, -1) {
		value, err := strconv.Atoi(match[1])
		if err != nil || value <= 0 {
			continue
		}
		switch strings.ToLower(match[2]) {
		case "h":
			total += value * 3600
		case "m":
			total += value * 60
		case "s":
			total += value
		}
	}
	return total
}

func parseVimeoEmbed(u *url.URL, source string) (videoEmbed, bool) {
	host := strings.ToLower(u.Hostname())
	if !isHostOrSubdomain(host, "vimeo.com") {
		return videoEmbed{}, false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	videoID := ""
	if host == "player.vimeo.com" {
		if len(segments) >= 2 && segments[0] == "video" {
			videoID = segments[1]
		}
	} else {
		// vimeo.com/<id> or vimeo.com/channels/<name>/<id>
		for i := len(segments) - 1; i >= 0; i-- {
			if vimeoIDPattern.MatchString(segments[i]) {
				videoID = segments[i]
				break
			}
		}
	}
	if !vimeoIDPattern.MatchString(videoID) {
		return videoEmbed{}, false
	}

	return videoEmbed{
		Provider: "vimeo",
		Source:   source,
		EmbedURL: "https://player.vimeo.com/video/" + videoID + "?dnt=1",
		Aspect:   embedAspectLandscape,
	}, true
}

func buildVideoEmbedHTML(embed videoEmbed) string {
	provider := htmlstd.EscapeString(embed.Provider)
	aspect := htmlstd.EscapeString(embed.Aspect)
	source := htmlstd.EscapeString(embed.Source)
	embedURL := htmlstd.EscapeString(embed.EmbedURL)
	title := htmlstd.EscapeString(videoEmbedTitle(embed.Provider))

	return fmt.Sprintf(
		`<div class="block-embed ratio ratio-16x9" data-embed-provider="%s" data-embed-aspect="%s" data-embed-source="%s">`+
			`<iframe src="%s" title="%s" loading="lazy" allow="%s" allowfullscreen frameborder="0" referrerpolicy="strict-origin-when-cross-origin"></iframe>`+
			`</div>`,
		provider,
		aspect,
		source,
		embedURL,
		title,
		videoEmbedAllowAttribute(),
	)
}

func videoEmbedTitle(provider string) string {
	switch provider {
	case "youtube":
		return "Vídeo de YouTube"
	case "vimeo":
		return "Vídeo de Vimeo"
	default:
		return "Contenido embebido"
	}
}

func videoEmbedAllowAttribute() string {
	return "accelerometer; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share"
}

func onlyDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}

func isHostOrSubdomain(host, domain string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	domain = strings.ToLower(strings.TrimSpace(domain))
	if host == "" || domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
