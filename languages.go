package agrilingo

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the language UI text is authored in.
const DefaultLanguage = "en"

// Language describes one selectable UI language.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}

// Languages is the fixed set of selectable languages, in menu order.
var Languages = []Language{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
	{Code: "bn", Name: "Bengali", NativeName: "বাংলা"},
	{Code: "te", Name: "Telugu", NativeName: "తెలుగు"},
	{Code: "mr", Name: "Marathi", NativeName: "मराठी"},
	{Code: "ta", Name: "Tamil", NativeName: "தமிழ்"},
	{Code: "gu", Name: "Gujarati", NativeName: "ગુજરાતી"},
	{Code: "kn", Name: "Kannada", NativeName: "ಕನ್ನಡ"},
	{Code: "ml", Name: "Malayalam", NativeName: "മലയാളം"},
	{Code: "pa", Name: "Punjabi", NativeName: "ਪੰਜਾਬੀ"},
	{Code: "ur", Name: "Urdu", NativeName: "اردو"},
	{Code: "ne", Name: "Nepali", NativeName: "नेपाली"},
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "ar", Name: "Arabic", NativeName: "العربية"},
}

// speechTags maps language codes to the BCP 47 tags used for speech synthesis.
var speechTags = map[string]string{
	"hi": "hi-IN",
	"bn": "bn-IN",
	"te": "te-IN",
	"ta": "ta-IN",
	"mr": "mr-IN",
	"gu": "gu-IN",
	"kn": "kn-IN",
	"ml": "ml-IN",
	"pa": "pa-IN",
	"ur": "ur-PK",
	"ne": "ne-NP",
	"es": "es-ES",
	"fr": "fr-FR",
	"ar": "ar-SA",
	"en": "en-US",
}

// RTLLanguages contains the supported codes written right-to-left.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"ur": true, // Urdu
}

// matcher is built once from Languages; the first entry is the fallback.
var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(Languages))
	for i, l := range Languages {
		tags[i] = language.Make(l.Code)
	}
	return language.NewMatcher(tags)
}()

// IsSupported reports whether code is one of Languages.
func IsSupported(code string) bool {
	_, ok := LookupLanguage(code)
	return ok
}

// LookupLanguage returns the Language for code.
func LookupLanguage(code string) (Language, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// SpeechTag returns the speech-synthesis tag for code, "en-US" when unknown.
func SpeechTag(code string) string {
	if tag, ok := speechTags[normalizeBaseLang(code)]; ok {
		return tag
	}
	return "en-US"
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(code string) string {
	if RTLLanguages[normalizeBaseLang(code)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(code string) bool {
	return GetDirection(code) == "rtl"
}

// MatchLanguage picks the best supported code for an Accept-Language header.
// It returns DefaultLanguage when nothing matches or the header is malformed.
func MatchLanguage(acceptLanguage string) string {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return DefaultLanguage
	}

	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return DefaultLanguage
	}
	return Languages[idx].Code
}

// normalizeBaseLang extracts the base language code (e.g., "hi" from "hi-IN" or "hi_IN").
func normalizeBaseLang(lang string) string {
	lang = strings.ReplaceAll(lang, "_", "-")
	base, _, _ := strings.Cut(lang, "-")
	return strings.ToLower(base)
}
