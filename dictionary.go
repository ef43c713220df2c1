package agrilingo

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

// MsgKey is a source message: the English UI text itself, not an invented id.
type MsgKey string

// Messages with bundled translations.
const (
	MsgDashboard             MsgKey = "Dashboard"
	MsgMenu                  MsgKey = "Menu"
	MsgSearch                MsgKey = "Search"
	MsgLogin                 MsgKey = "Login"
	MsgSignUp                MsgKey = "Sign Up"
	MsgLogout                MsgKey = "Logout"
	MsgTemperature           MsgKey = "Temperature"
	MsgHumidity              MsgKey = "Humidity"
	MsgSoilMoisture          MsgKey = "Soil Moisture"
	MsgTodayHighlight        MsgKey = "Today Highlight"
	MsgIrrigationTip         MsgKey = "Irrigation Tip"
	MsgAICropRecommendation  MsgKey = "AI Crop Recommendation"
	MsgAIIrrigationForecast  MsgKey = "AI Irrigation Forecast"
	MsgGovernmentSchemes     MsgKey = "Government Schemes"
	MsgControlPump           MsgKey = "Control Pump"
	MsgGetRecommendations    MsgKey = "Get Recommendations"
	MsgLoading               MsgKey = "Loading..."
	MsgProcessing            MsgKey = "Processing..."
	MsgRecommendedCrops      MsgKey = "Recommended Crops"
	MsgIrrigationForecast    MsgKey = "Irrigation Forecast"
	MsgRainfall              MsgKey = "Rainfall"
	MsgWindSpeed             MsgKey = "Wind Speed"
	MsgRecommendation        MsgKey = "Recommendation"
	MsgLearnMore             MsgKey = "Learn More"
	MsgImportantInformation  MsgKey = "Important Information"
	MsgNitrogen              MsgKey = "Nitrogen (N)"
	MsgPhosphorus            MsgKey = "Phosphorus (P)"
	MsgPotassium             MsgKey = "Potassium (K)"
	MsgSelectDateNext14Days  MsgKey = "Select Date (Next 14 days)"
	MsgEnterLocationForCrops MsgKey = "Enter a location to get crop recommendations"
	MsgEnterSoilDataForCrops MsgKey = "Enter soil data to get specialized recommendations"
	MsgAverageTemperature    MsgKey = "Average Temperature"
	MsgEvapotranspiration    MsgKey = "Evapotranspiration"
	MsgSpecializedAnalysis   MsgKey = "Specialized Analysis"
	MsgMaxMinTemperature     MsgKey = "Max/Min Temperature"
	MsgAlreadyHaveAnAccount  MsgKey = "Already have an account? Login"
	MsgDontHaveAnAccount     MsgKey = "Don't have an account? Sign Up"
	MsgEnterSoilLabData      MsgKey = "Enter soil lab data:"
	MsgRecommendedCropsFor   MsgKey = "Recommended Crops for"
)

//go:embed dictionary.yaml
var bundledDictionary []byte

// Dictionary is a static phrase table: message -> language code -> translation.
// It is safe for concurrent use.
type Dictionary struct {
	mu      sync.RWMutex
	entries map[MsgKey]map[string]string
}

// NewDictionary creates a dictionary from a table. The table is copied.
func NewDictionary(entries map[MsgKey]map[string]string) *Dictionary {
	d := &Dictionary{entries: make(map[MsgKey]map[string]string, len(entries))}
	d.merge(entries)
	return d
}

var (
	defaultDictOnce sync.Once
	defaultDict     *Dictionary
)

// DefaultDictionary returns a fresh copy of the bundled phrase table.
func DefaultDictionary() *Dictionary {
	defaultDictOnce.Do(func() {
		d, err := ParseDictionary(bundledDictionary)
		if err != nil {
			panic(fmt.Sprintf("agrilingo: bundled dictionary: %v", err))
		}
		defaultDict = d
	})
	return NewDictionary(defaultDict.snapshot())
}

// ParseDictionary parses a YAML phrase table.
func ParseDictionary(data []byte) (*Dictionary, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing dictionary: %w", err)
	}

	entries := make(map[MsgKey]map[string]string, len(raw))
	for k, v := range raw {
		entries[MsgKey(strings.TrimSpace(k))] = v
	}
	return NewDictionary(entries), nil
}

// LoadDictionary reads a YAML phrase table from r.
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return ParseDictionary(data)
}

// LoadDictionaryFile reads a YAML phrase table from path.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path) // #nosec G304 - operator-provided dictionary file
	if err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	return ParseDictionary(data)
}

// Lookup returns the translation of text into lang. The text is trimmed
// before lookup; a message without an entry for lang is a miss.
func (d *Dictionary) Lookup(text, lang string) (string, bool) {
	if d == nil {
		return "", false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	locales, ok := d.entries[MsgKey(strings.TrimSpace(text))]
	if !ok {
		return "", false
	}
	v, ok := locales[lang]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Tr translates a message key, falling back to the key itself.
func (d *Dictionary) Tr(key MsgKey, lang string) string {
	if v, ok := d.Lookup(string(key), lang); ok {
		return v
	}
	return string(key)
}

// Merge adds the entries of other, overwriting per-locale values on conflict.
func (d *Dictionary) Merge(other *Dictionary) {
	if other == nil {
		return
	}
	d.merge(other.snapshot())
}

// Len returns the number of messages.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Has reports whether key has any translations.
func (d *Dictionary) Has(key MsgKey) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.entries[key]
	return ok
}

func (d *Dictionary) merge(entries map[MsgKey]map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for k, locales := range entries {
		dst, ok := d.entries[k]
		if !ok {
			dst = make(map[string]string, len(locales))
			d.entries[k] = dst
		}
		for lang, v := range locales {
			dst[lang] = v
		}
	}
}

func (d *Dictionary) snapshot() map[MsgKey]map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[MsgKey]map[string]string, len(d.entries))
	for k, locales := range d.entries {
		cp := make(map[string]string, len(locales))
		for lang, v := range locales {
			cp[lang] = v
		}
		out[k] = cp
	}
	return out
}
