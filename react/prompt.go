package react

import (
	"strings"
	"text/template"

	"github.com/agentcore/runtime/llm"
)

// promptData is the binding passed to Config.PromptTemplate.
type promptData struct {
	Input   string
	History []llm.Message
}

const defaultPromptTemplate = `{{range .History}}{{.Role}}: {{.Content}}
{{end}}user: {{.Input}}`

// seedPrompt renders Config.PromptTemplate (or a sensible default) against
// input and history.
func seedPrompt(cfg Config, input string, history []llm.Message) (string, error) {
	src := cfg.PromptTemplate
	if src == "" {
		src = defaultPromptTemplate
	}
	tmpl, err := template.New("react-seed").Parse(src)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, promptData{Input: input, History: history}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// appendStep renders a completed thought/action/observation step onto the
// running prompt.
func appendStep(running string, step StepRecord) string {
	var b strings.Builder
	b.WriteString(running)
	b.WriteString("\nThought: ")
	b.WriteString(step.Thought)
	if step.Action != "" {
		b.WriteString("\nAction: ")
		b.WriteString(step.Action)
		b.WriteString("\nObservation: ")
		b.WriteString(step.Observation)
	}
	return b.String()
}

// hitStopSequence reports whether text contains any configured stop
// sequence, and the text truncated at the first occurrence.
func hitStopSequence(text string, stopSequences []string) (hit bool, truncated string) {
	earliest := -1
	for _, seq := range stopSequences {
		if seq == "" {
			continue
		}
		if idx := strings.Index(text, seq); idx != -1 && (earliest == -1 || idx < earliest) {
			earliest = idx
		}
	}
	if earliest == -1 {
		return false, text
	}
	return true, text[:earliest]
}
