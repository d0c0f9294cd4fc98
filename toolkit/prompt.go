package toolkit

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// PreparePromptPayload concatenates, per registered tool, a sanitized
// name/description plus JSON of its input/output schemas and invocation
// examples, separated by "---". Returns the empty string
// when no tools are registered. Tools are rendered in name order so the
// payload is deterministic across calls.
func (tk *Toolkit) PreparePromptPayload() string {
	tk.mu.Lock()
	names := make([]string, 0, len(tk.tools))
	for name := range tk.tools {
		names = append(names, name)
	}
	regs := tk.tools
	tk.mu.Unlock()

	sort.Strings(names)

	var sections []string
	for _, name := range names {
		reg := regs[name]
		sections = append(sections, renderToolSection(reg))
	}
	return strings.Join(sections, "\n---\n")
}

func renderToolSection(reg *registration) string {
	meta := reg.meta
	var b strings.Builder
	b.WriteString(sanitize(meta.Name))
	b.WriteString("\n")
	b.WriteString(sanitize(meta.Description))
	b.WriteString("\n")

	if len(meta.InputSchema) > 0 {
		b.WriteString("input_schema: ")
		b.Write(compactJSON(meta.InputSchema))
		b.WriteString("\n")
	}
	if len(meta.OutputSchema) > 0 {
		b.WriteString("output_schema: ")
		b.Write(compactJSON(meta.OutputSchema))
		b.WriteString("\n")
	}
	if len(meta.InvocationExamples) > 0 {
		examples, _ := json.Marshal(meta.InvocationExamples)
		b.WriteString("examples: ")
		b.Write(examples)
		b.WriteString("\n")
	}
	return b.String()
}

func compactJSON(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "---", ""))
}
