package tracker

import (
	"strconv"
	"strings"
)

// Destination is one publication target as shown in the tracker list.
type Destination struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Board is the immutable data baked into a page at generation time. Each
// destination has its own postscript at the same index.
type Board struct {
	Destinations []Destination
	Postscripts  []string
	PromoLine    string
}

// Item is one rendered tracker row.
type Item struct {
	Index     int
	Label     string
	Published bool
	Selected  bool
}

// View is everything the page displays for a given state.
type View struct {
	ActiveURL  string
	Postscript string
	// Promo is the promo postscript with its prefix, empty when the board
	// has no promo line.
	Promo string
	Items []Item
}

// LabelField is the editedContent key of a destination label.
func LabelField(i int) string {
	return "tracker-label-" + strconv.Itoa(i)
}

// PromoPrefix picks the label of the promo postscript: "PS-2:" when the
// rotating postscript already starts with "PS:", "PS:" otherwise.
func PromoPrefix(postscript string) string {
	if strings.HasPrefix(postscript, "PS:") {
		return "PS-2:"
	}
	return "PS:"
}

// Render normalizes state and derives the view from it. The normalized
// state is returned so callers can persist it.
func Render(state State, board Board) (State, View) {
	state = state.Normalize()
	view := View{Items: make([]Item, 0, len(board.Destinations))}
	idx := state.SelectedIndex
	if idx < len(board.Destinations) {
		view.ActiveURL = board.Destinations[idx].URL
	}
	if idx < len(board.Postscripts) {
		view.Postscript = board.Postscripts[idx]
	}
	if board.PromoLine != "" {
		view.Promo = PromoPrefix(view.Postscript) + " " + board.PromoLine
	}
	for i, dest := range board.Destinations {
		label := dest.Name
		if edited, ok := state.EditedContent[LabelField(i)]; ok && edited != "" {
			label = edited
		}
		item := Item{Index: i, Label: label, Selected: i == idx}
		if i < len(state.Published) {
			item.Published = state.Published[i]
		}
		view.Items = append(view.Items, item)
	}
	return state, view
}
