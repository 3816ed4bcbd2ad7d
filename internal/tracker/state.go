package tracker

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"subpost/internal/services"
)

// State is the persisted publication state of one page. The JSON names match
// what tracker.js writes to localStorage.
type State struct {
	Published     []bool            `json:"published"`
	SelectedIndex int               `json:"selectedSubredditIndex"`
	EditedContent map[string]string `json:"editedContent"`
}

// New returns the initial state for n destinations: nothing published, the
// first destination selected, no edits.
func New(n int) State {
	return State{
		Published:     make([]bool, max(n, 0)),
		SelectedIndex: 0,
		EditedContent: map[string]string{},
	}
}

func (s State) clone() State {
	out := State{
		Published:     slices.Clone(s.Published),
		SelectedIndex: s.SelectedIndex,
		EditedContent: maps.Clone(s.EditedContent),
	}
	if out.Published == nil {
		out.Published = []bool{}
	}
	if out.EditedContent == nil {
		out.EditedContent = map[string]string{}
	}
	return out
}

// nextUnpublished returns the first unpublished index, or the last index
// when every destination is published.
func (s State) nextUnpublished() int {
	if i := slices.Index(s.Published, false); i >= 0 {
		return i
	}
	return len(s.Published) - 1
}

// Normalize clamps the selected index into range and moves it off a
// published destination.
func (s State) Normalize() State {
	out := s.clone()
	if len(out.Published) == 0 {
		out.SelectedIndex = 0
		return out
	}
	if out.SelectedIndex < 0 || out.SelectedIndex >= len(out.Published) {
		out.SelectedIndex = 0
	}
	if out.Published[out.SelectedIndex] {
		out.SelectedIndex = out.nextUnpublished()
	}
	return out
}

// Select makes destination i active even when it is already published; the
// next Normalize moves the selection on in that case.
func (s State) Select(i int) (State, error) {
	if i < 0 || i >= len(s.Published) {
		return s.clone(), fmt.Errorf("%w: destination index %d out of range [0,%d)", services.ErrValidation, i, len(s.Published))
	}
	out := s.clone()
	out.SelectedIndex = i
	return out, nil
}

// Toggle flips the published flag of destination i. Publishing the selected
// destination reselects through the normalization rule; any other toggle
// leaves the selection alone.
func (s State) Toggle(i int) (State, error) {
	if i < 0 || i >= len(s.Published) {
		return s.clone(), fmt.Errorf("%w: destination index %d out of range [0,%d)", services.ErrValidation, i, len(s.Published))
	}
	out := s.clone()
	out.Published[i] = !out.Published[i]
	if out.Published[i] && i == out.SelectedIndex {
		out.SelectedIndex = out.nextUnpublished()
	}
	return out, nil
}

// Edit records the operator's text for an editable field.
func (s State) Edit(field, text string) State {
	out := s.clone()
	out.EditedContent[field] = text
	return out
}

// Marshal serializes the state in the localStorage format.
func (s State) Marshal() ([]byte, error) {
	return json.Marshal(s.clone())
}

// Restore loads a persisted state for a page with n destinations. Empty or
// unreadable data yields New(n). A published list of the wrong length is
// padded or truncated to n, then the result is normalized.
func Restore(data []byte, n int) State {
	if len(strings.TrimSpace(string(data))) == 0 || strings.TrimSpace(string(data)) == "null" {
		return New(n)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return New(n)
	}
	s = s.clone()
	switch {
	case len(s.Published) > n:
		s.Published = s.Published[:n]
	case len(s.Published) < n:
		s.Published = append(s.Published, make([]bool, n-len(s.Published))...)
	}
	return s.Normalize()
}

// StorageKeyPrefix starts every localStorage key written by generated pages.
const StorageKeyPrefix = "reddit-post"

// StorageKey joins the content identity parts into the page's localStorage
// key, for example StorageKey("grammar", "si-imparfait", "2024-05-01").
func StorageKey(parts ...string) string {
	return strings.Join(append([]string{StorageKeyPrefix}, parts...), "-")
}
