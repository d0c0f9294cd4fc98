package react

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParsedStep is the structured form of one LLM completion within the
// loop: either a (Thought, Action, ActionInput) triple or a FinalAnswer,
// never both.
type ParsedStep struct {
	Thought     string
	Action      string
	ActionInput map[string]any
	FinalAnswer *string
}

// Parser turns raw LLM text into a ParsedStep. Implementations may return
// an error for malformed output; the loop retries the step once and, if
// the output still fails to parse, returns an error. No event is
// published for a parse failure.
type Parser interface {
	Parse(text string) (ParsedStep, error)
}

// DefaultParser recognizes the conventional ReAct transcript shape:
//
//	Thought: <reasoning>
//	Action: <tool name>
//	Action Input: <json object>
//
// or
//
//	Thought: <reasoning>
//	Final Answer: <answer text>
type DefaultParser struct{}

func (DefaultParser) Parse(text string) (ParsedStep, error) {
	thought := extractField(text, "Thought:")

	if answer, ok := extractFieldOK(text, "Final Answer:"); ok {
		return ParsedStep{Thought: thought, FinalAnswer: &answer}, nil
	}

	action, ok := extractFieldOK(text, "Action:")
	if !ok {
		return ParsedStep{}, fmt.Errorf("react: could not find Action or Final Answer in output")
	}
	action = strings.TrimSpace(strings.SplitN(action, "\n", 2)[0])

	inputRaw, ok := extractFieldOK(text, "Action Input:")
	args := map[string]any{}
	if ok {
		inputRaw = strings.TrimSpace(inputRaw)
		if inputRaw != "" {
			if err := json.Unmarshal([]byte(inputRaw), &args); err != nil {
				return ParsedStep{}, fmt.Errorf("react: invalid Action Input JSON: %w", err)
			}
		}
	}

	return ParsedStep{Thought: thought, Action: action, ActionInput: args}, nil
}

// extractField returns the text following marker up to the next
// recognized section marker or end of string. Returns "" if marker is
// absent.
func extractField(text, marker string) string {
	v, _ := extractFieldOK(text, marker)
	return v
}

var sectionMarkers = []string{"Thought:", "Action:", "Action Input:", "Observation:", "Final Answer:"}

func extractFieldOK(text, marker string) (string, bool) {
	idx := strings.Index(text, marker)
	if idx == -1 {
		return "", false
	}
	rest := text[idx+len(marker):]

	end := len(rest)
	for _, m := range sectionMarkers {
		if m == marker {
			continue
		}
		if i := strings.Index(rest, "\n"+m); i != -1 && i < end {
			end = i
		}
	}
	return strings.TrimSpace(rest[:end]), true
}
