package codegen

import (
	"strings"
)

const indentUnit = "    "

// RenderFunction renders an async function in object-method form.
//
//	{docs}async name(a: A, b: B): Promise<T> {
//	    body
//	}
//
// docs is inserted verbatim and should end with a newline when non-empty.
// An empty returnType omits the annotation.
func RenderFunction(docs, name string, params []string, returnType, body string) string {
	var b strings.Builder
	b.WriteString(docs)
	b.WriteString("async ")
	b.WriteString(name)
	b.WriteByte('(')
	b.WriteString(strings.Join(params, ", "))
	b.WriteByte(')')
	if returnType != "" {
		b.WriteString(": Promise<")
		b.WriteString(returnType)
		b.WriteByte('>')
	}
	b.WriteString(" {\n")
	if body != "" {
		b.WriteString(indent(body, indentUnit))
		b.WriteByte('\n')
	}
	b.WriteByte('}')
	return b.String()
}

// JSDoc renders a documentation block. Returns "" when there is nothing to
// document. deprecated is nil for non-deprecated items; an empty reason
// still emits the tag.
func JSDoc(docs string, deprecated *string) string {
	docs = strings.TrimSpace(docs)
	if docs == "" && deprecated == nil {
		return ""
	}

	var lines []string
	if docs != "" {
		lines = strings.Split(docs, "\n")
	}
	if deprecated != nil {
		tag := "@deprecated"
		if reason := strings.TrimSpace(*deprecated); reason != "" {
			tag += " " + reason
		}
		lines = append(lines, tag)
	}

	var b strings.Builder
	b.WriteString("/**\n")
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		// A literal "*/" would terminate the comment early.
		line = strings.ReplaceAll(line, "*/", "*\\/")
		if line == "" {
			b.WriteString(" *\n")
			continue
		}
		b.WriteString(" * ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(" */\n")
	return b.String()
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
