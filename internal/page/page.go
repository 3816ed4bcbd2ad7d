package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"subpost/internal/tracker"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

var base = template.Must(template.New("page").Funcs(funcs).ParseFS(templateFS, "templates/base.html.tmpl"))

var (
	vocabTemplate   = pageTemplate("vocab")
	grammarTemplate = pageTemplate("grammar")
	humorTemplate   = pageTemplate("humor")
)

func pageTemplate(kind string) *template.Template {
	clone := template.Must(base.Clone())
	return template.Must(clone.ParseFS(templateFS, "templates/"+kind+".html.tmpl"))
}

// Frame is the part shared by every page: the tracker board, the page's
// localStorage key, and the sign-off line.
type Frame struct {
	StorageKey string
	Board      tracker.Board
	Signature  string
}

// Scene is one screenshot with its source title and the translation shown
// under it.
type Scene struct {
	ImagePath   string
	SourceTitle string
	Translation string
	Redacted    string
}

// Vocab is a word or expression post: two scenes shown once with the
// translation and once with the target masked.
type Vocab struct {
	Frame
	Target      string
	Scenes      [2]Scene
	Explanation string
}

// Grammar is a "which version is correct?" quiz.
type Grammar struct {
	Frame
	Rule        string
	Options     [3]string
	Explanation string
}

// Humor is a meme with its explanation.
type Humor struct {
	Frame
	Title       string
	ImagePath   string
	Description string
}

type document struct {
	Page      any
	View      tracker.View
	Tracker   tracker.Config
	Script    template.JS
	Signature string
}

type sceneText struct {
	ImagePath   string
	SourceTitle string
	Text        string
}

type vocabSection struct {
	Target  string
	Variant string
	Scenes  []sceneText
}

type vocabBody struct {
	Target      string
	Visible     vocabSection
	Hidden      vocabSection
	Explanation string
}

// RenderVocab renders a vocab page.
func RenderVocab(p Vocab) ([]byte, error) {
	body := vocabBody{
		Target:      p.Target,
		Visible:     vocabSection{Target: p.Target, Variant: "visible"},
		Hidden:      vocabSection{Target: p.Target, Variant: "hidden"},
		Explanation: p.Explanation,
	}
	for _, scene := range p.Scenes {
		body.Visible.Scenes = append(body.Visible.Scenes, sceneText{scene.ImagePath, scene.SourceTitle, scene.Translation})
		body.Hidden.Scenes = append(body.Hidden.Scenes, sceneText{scene.ImagePath, scene.SourceTitle, scene.Redacted})
	}
	return render(vocabTemplate, p.Frame, body)
}

// RenderGrammar renders a grammar quiz page.
func RenderGrammar(p Grammar) ([]byte, error) {
	return render(grammarTemplate, p.Frame, p)
}

// RenderHumor renders a meme page.
func RenderHumor(p Humor) ([]byte, error) {
	return render(humorTemplate, p.Frame, p)
}

func render(tmpl *template.Template, frame Frame, body any) ([]byte, error) {
	if n := len(frame.Board.Destinations); n == 0 || len(frame.Board.Postscripts) != n {
		return nil, fmt.Errorf("page board needs one postscript per destination, have %d for %d", len(frame.Board.Postscripts), n)
	}
	_, view := tracker.Render(tracker.New(len(frame.Board.Destinations)), frame.Board)
	doc := document{
		Page:      body,
		View:      view,
		Tracker:   tracker.NewConfig(frame.StorageKey, frame.Board),
		Script:    tracker.Script(),
		Signature: frame.Signature,
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", doc); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
