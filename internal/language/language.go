// Package language maps human-readable language names to the locale and
// codes expected by the recognition, translation, and synthesis services.
package language

import "sort"

// Profile bundles the per-service codes for one language. Resolved once
// at connect time and immutable for the session lifetime.
type Profile struct {
	Name              string
	RecognitionLocale string // speech-to-text locale, e.g. "hi-IN"
	SynthesisCode     string // text-to-speech voice language, e.g. "hi"
	TranslationCode   string // machine-translation ISO code, e.g. "hi"
}

// profiles lists every supported language. Languages without dedicated
// recognition or synthesis support fall back to Hindi models while
// keeping their own translation code.
var profiles = map[string]Profile{
	"Hindi":         {"Hindi", "hi-IN", "hi", "hi"},
	"English":       {"English", "en-IN", "en", "en"},
	"Tamil":         {"Tamil", "ta-IN", "ta", "ta"},
	"Telugu":        {"Telugu", "te-IN", "te", "te"},
	"Bengali":       {"Bengali", "bn-IN", "bn", "bn"},
	"Urdu":          {"Urdu", "ur-IN", "ur", "ur"},
	"Marathi":       {"Marathi", "mr-IN", "mr", "mr"},
	"Gujarati":      {"Gujarati", "gu-IN", "gu", "gu"},
	"Kannada":       {"Kannada", "kn-IN", "kn", "kn"},
	"Malayalam":     {"Malayalam", "ml-IN", "ml", "ml"},
	"Punjabi":       {"Punjabi", "pa-IN", "pa", "pa"},
	"Assamese":      {"Assamese", "as-IN", "hi", "as"},
	"Odia":          {"Odia", "or-IN", "hi", "or"},
	"Bhojpuri":      {"Bhojpuri", "hi-IN", "hi", "bho"},
	"Maithili":      {"Maithili", "hi-IN", "hi", "mai"},
	"Chhattisgarhi": {"Chhattisgarhi", "hi-IN", "hi", "hne"},
	"Rajasthani":    {"Rajasthani", "hi-IN", "hi", "raj"},
	"Konkani":       {"Konkani", "hi-IN", "hi", "kok"},
	"Dogri":         {"Dogri", "hi-IN", "hi", "doi"},
	"Kashmiri":      {"Kashmiri", "hi-IN", "hi", "ks"},
	"Santhali":      {"Santhali", "hi-IN", "hi", "sat"},
	"Sindhi":        {"Sindhi", "hi-IN", "hi", "sd"},
	"Manipuri":      {"Manipuri", "hi-IN", "hi", "mni"},
	"Bodo":          {"Bodo", "hi-IN", "hi", "brx"},
	"Sanskrit":      {"Sanskrit", "sa-IN", "hi", "sa"},
}

// Default is the fallback profile for unknown or empty language names.
var Default = profiles["Hindi"]

// Resolve maps a language name to its profile. It never fails: unknown
// or empty names resolve to Default. Callers that care can check
// Known(name) to log the fallback.
func Resolve(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return Default
}

// Known reports whether name has a dedicated profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names returns all supported language names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
