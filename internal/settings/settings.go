// Package settings manages the application settings document: one JSON blob
// holding feature toggles, player defaults and theme choices. Unknown keys
// merge over the built-in defaults so a partial document always loads.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Features toggles optional product surfaces.
type Features struct {
	EnableSearch          bool `json:"enableSearch"`
	EnableFavorites       bool `json:"enableFavorites"`
	EnableWatchlist       bool `json:"enableWatchlist"`
	EnableRecommendations bool `json:"enableRecommendations"`
	EnableComments        bool `json:"enableComments"`
}

// Player holds the playback defaults applied to every new session.
type Player struct {
	Autoplay          bool    `json:"autoplay"`
	ShowControls      bool    `json:"showControls"`
	DefaultQuality    string  `json:"defaultQuality"`
	PrimarySource     string  `json:"primarySource"`
	Volume            float64 `json:"volume"`
	ControlsTimeoutMs int     `json:"controlsTimeoutMs"`
}

// Theme holds presentation choices.
type Theme struct {
	Variant      string `json:"variant"`
	DarkMode     bool   `json:"darkMode"`
	BorderRadius string `json:"borderRadius"`
}

// Document is the full settings blob.
type Document struct {
	AppName         string   `json:"appName"`
	AppDescription  string   `json:"appDescription"`
	DefaultLanguage string   `json:"defaultLanguage"`
	Version         string   `json:"version"`
	Features        Features `json:"features"`
	Player          Player   `json:"player"`
	Theme           Theme    `json:"theme"`
}

// Defaults is the document every deployment starts from.
func Defaults() Document {
	return Document{
		AppName:         "LX Movies",
		AppDescription:  "Browse and stream movies",
		DefaultLanguage: "en-US",
		Version:         "1.0.0",
		Features: Features{
			EnableSearch:          true,
			EnableFavorites:       true,
			EnableWatchlist:       true,
			EnableRecommendations: true,
			EnableComments:        false,
		},
		Player: Player{
			Autoplay:          false,
			ShowControls:      true,
			DefaultQuality:    "HD",
			PrimarySource:     "vidsrc",
			Volume:            0.8,
			ControlsTimeoutMs: 3000,
		},
		Theme: Theme{
			Variant:      "cinema",
			DarkMode:     true,
			BorderRadius: "0.5rem",
		},
	}
}

// ErrInvalidDocument is returned when an imported blob is not a settings
// document.
var ErrInvalidDocument = errors.New("settings: invalid document")

// Merge overlays raw JSON onto base. Keys absent from raw keep the base
// value; unknown keys are ignored. This is how partial and old-version
// documents stay loadable.
func Merge(base Document, raw []byte) (Document, error) {
	out := base
	if err := json.Unmarshal(raw, &out); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := out.Validate(); err != nil {
		return Document{}, err
	}
	return out, nil
}

// Validate rejects values no part of the app could render.
func (d Document) Validate() error {
	if d.Player.Volume < 0 || d.Player.Volume > 1 {
		return fmt.Errorf("%w: player.volume %v out of range", ErrInvalidDocument, d.Player.Volume)
	}
	if d.Player.ControlsTimeoutMs < 0 {
		return fmt.Errorf("%w: player.controlsTimeoutMs must not be negative", ErrInvalidDocument)
	}
	return nil
}

// Export serializes the document for download.
func (d Document) Export() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Import parses an exported blob, merging over defaults so exports from
// older versions keep loading.
func Import(raw []byte) (Document, error) {
	return Merge(Defaults(), raw)
}
