package tracker

import (
	_ "embed"
	"html/template"
)

//go:embed tracker.js
var script string

// Script returns the browser port of the tracker. It reads its configuration
// from window.SUBPOST_TRACKER (see Config).
func Script() template.JS {
	return template.JS(script)
}

// Config is the page data the script reads at load time.
type Config struct {
	StorageKey   string        `json:"storageKey"`
	Destinations []Destination `json:"destinations"`
	Postscripts  []string      `json:"postscripts"`
	PromoLine    string        `json:"promoLine,omitempty"`
	Default      State         `json:"defaultState"`
}

// NewConfig builds the script configuration for a board.
func NewConfig(storageKey string, board Board) Config {
	return Config{
		StorageKey:   storageKey,
		Destinations: board.Destinations,
		Postscripts:  board.Postscripts,
		PromoLine:    board.PromoLine,
		Default:      New(len(board.Destinations)),
	}
}
