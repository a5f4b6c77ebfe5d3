package netconfig

import (
	"regexp"
	"strings"
)

// DefaultBannerDelimiter is the sentinel IOS style devices print around
// banner bodies in their configuration output.
const DefaultBannerDelimiter = "^C"

// BannerRemovedMarker replaces an extracted banner stanza in the stripped
// text. It starts with a comment token so the parser drops it again.
const BannerRemovedMarker = "!! banner removed"

var bannerIntro = regexp.MustCompile(`(?m)^banner (\w+)`)

// ExtractBanners removes sentinel-delimited banner blocks from config so the
// remainder can be diffed line by line. It returns the stripped text and a
// map of "banner <name>" keys to the trimmed banner bodies. A banner with an
// empty body still yields a map entry and the removal marker. Sentinel
// occurrences outside a banner stanza are left alone.
func ExtractBanners(config, delimiter string) (string, map[string]string) {
	if delimiter == "" {
		delimiter = DefaultBannerDelimiter
	}
	quoted := regexp.QuoteMeta(delimiter)
	banners := make(map[string]string)
	stripped := config

	for _, m := range bannerIntro.FindAllStringSubmatch(config, -1) {
		name := m[1]
		re := regexp.MustCompile(`(?s)banner ` + name + ` ` + quoted + `(.*?)` + quoted)
		match := re.FindStringSubmatch(config)
		if match == nil {
			continue
		}
		banners["banner "+name] = strings.TrimSpace(match[1])
		if match[1] != "" {
			stripped = strings.ReplaceAll(stripped, match[1], "")
		}
	}

	emptied := regexp.MustCompile(`banner \w+ ` + quoted + quoted)
	return emptied.ReplaceAllString(stripped, BannerRemovedMarker), banners
}

// DiffBanners returns the entries of want whose values differ from have.
// A key missing from have counts as changed.
func DiffBanners(want, have map[string]string) map[string]string {
	changed := make(map[string]string)
	for k, v := range want {
		if hv, ok := have[k]; !ok || hv != v {
			changed[k] = v
		}
	}
	return changed
}
