package http

import (
	"net/http"

	"golang.org/x/text/language"
)

const (
	langParam  = "lang"
	themeParam = "theme"
)

// DisplayPrefs are presentation options the API recognizes and echoes
// back for the rendering layer. The engine itself only consumes the
// locale, which drives name-sort collation; color mode is passed
// through untouched.
type DisplayPrefs struct {
	Locale    string `json:"locale"`
	ColorMode string `json:"color_mode"`
}

// resolvePrefs picks the display language from the lang query param,
// falling back to the Accept-Language header, then to English.
func resolvePrefs(r *http.Request) (DisplayPrefs, language.Tag) {
	tag := language.English
	if lang := r.URL.Query().Get(langParam); lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			tag = parsed
		}
	} else if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			tag = tags[0]
		}
	}

	colorMode := "light"
	if r.URL.Query().Get(themeParam) == "dark" {
		colorMode = "dark"
	}

	return DisplayPrefs{Locale: tag.String(), ColorMode: colorMode}, tag
}
