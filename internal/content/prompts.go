package content

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").
	Funcs(template.FuncMap{"join": strings.Join}).
	ParseFS(promptFS, "prompts/*.tmpl"))

const (
	systemPlainText       = "Ne fais pas de mise en forme dans ta réponse."
	systemGrammarProposer = "Tu es un expert en grammaire française qui crée du contenu pédagogique pour des apprenants anglophones. Tu dois proposer des règles VARIÉES à chaque fois."
	systemGrammarExplain  = "Tu es un expert en grammaire française qui explique les règles de manière claire et concise en anglais."
	systemGrammarRevise   = "Tu es un expert en grammaire française qui adapte les explications selon les retours."
	systemMemeAnalyst     = "You are an expert in French humor and language pedagogy. You analyze French memes and create educational content for English-speaking learners."
	systemMemeRevise      = "You are an expert in French humor and language pedagogy who adapts content based on feedback."
)

func renderPrompt(name string, data any) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}
