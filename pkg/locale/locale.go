// Package locale holds the closed set of UI locales and their lookup tables.
package locale

const Default = "en"

type Info struct {
	DisplayName string // native name shown in the language selector
	Language    string // English name used inside generation prompts
}

// Supported is the fixed ten-entry locale set. Unknown codes fall back to
// Default rather than failing.
var Supported = map[string]Info{
	"en": {DisplayName: "English", Language: "English"},
	"es": {DisplayName: "Español", Language: "Spanish"},
	"fr": {DisplayName: "Français", Language: "French"},
	"de": {DisplayName: "Deutsch", Language: "German"},
	"it": {DisplayName: "Italiano", Language: "Italian"},
	"pt": {DisplayName: "Português", Language: "Portuguese"},
	"ja": {DisplayName: "日本語", Language: "Japanese"},
	"ko": {DisplayName: "한국어", Language: "Korean"},
	"zh": {DisplayName: "中文", Language: "Chinese"},
	"ar": {DisplayName: "العربية", Language: "Arabic"},
}

// Normalize maps any code onto the supported set.
func Normalize(code string) string {
	if _, ok := Supported[code]; ok {
		return code
	}
	return Default
}

// Language returns the English language name for a locale code.
func Language(code string) string {
	return Supported[Normalize(code)].Language
}

// DisplayName returns the native display name for a locale code.
func DisplayName(code string) string {
	return Supported[Normalize(code)].DisplayName
}
