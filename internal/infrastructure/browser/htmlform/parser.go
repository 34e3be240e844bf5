package htmlform

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"booking-assistant/internal/domain/entity"
)

// Input types that never take user data and are skipped during extraction.
var skippedInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"image":  true,
	"reset":  true,
}

// ExtractFields parses a booking page and returns descriptors for every
// fillable form control it finds: inputs, selects and textareas. The
// FieldID is a CSS locator the actuator can resolve on the live page.
func ExtractFields(rawHTML string) ([]entity.FormField, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	labels := collectLabels(doc)

	var fields []entity.FormField
	counts := make(map[string]int)

	var walk func(n *html.Node, labelText string)
	walk = func(n *html.Node, labelText string) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "label":
				// Controls nested inside a label inherit its text.
				labelText = nodeText(n)
			case "input", "select", "textarea":
				counts[n.Data]++
				if f, ok := buildField(n, counts[n.Data], labels, labelText); ok {
					fields = append(fields, f)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, labelText)
		}
	}
	walk(doc, "")

	return fields, nil
}

func buildField(n *html.Node, ordinal int, labels map[string]string, wrappingLabel string) (entity.FormField, bool) {
	attrs := attrMap(n)

	fieldType := n.Data
	if n.Data == "input" {
		fieldType = attrs["type"]
		if fieldType == "" {
			fieldType = "text"
		}
		if skippedInputTypes[fieldType] {
			return entity.FormField{}, false
		}
	}

	return entity.FormField{
		Label:     fieldLabel(attrs, labels, wrappingLabel),
		FieldID:   fieldLocator(n.Data, attrs, ordinal),
		FieldType: fieldType,
		Required:  hasAttr(n, "required") || attrs["aria-required"] == "true",
	}, true
}

// fieldLabel picks the most human-readable name available: an associated
// <label>, the wrapping label, aria-label, placeholder, then a humanized
// name attribute.
func fieldLabel(attrs map[string]string, labels map[string]string, wrappingLabel string) string {
	if id := attrs["id"]; id != "" {
		if text, ok := labels[id]; ok && text != "" {
			return text
		}
	}
	if wrappingLabel != "" {
		return wrappingLabel
	}
	if aria := attrs["aria-label"]; aria != "" {
		return aria
	}
	if ph := attrs["placeholder"]; ph != "" {
		return ph
	}
	if name := attrs["name"]; name != "" {
		return humanize(name)
	}
	return ""
}

func fieldLocator(tag string, attrs map[string]string, ordinal int) string {
	if id := attrs["id"]; id != "" {
		return "#" + id
	}
	if name := attrs["name"]; name != "" {
		return fmt.Sprintf(`%s[name="%s"]`, tag, name)
	}
	return fmt.Sprintf("%s:nth-of-type(%d)", tag, ordinal)
}

// collectLabels maps label "for" targets to their visible text.
func collectLabels(doc *html.Node) map[string]string {
	labels := make(map[string]string)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "label" {
			if target := attrMap(n)["for"]; target != "" {
				labels[target] = nodeText(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return labels
}

func attrMap(n *html.Node) map[string]string {
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		m[a.Key] = a.Val
	}
	return m
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	text := strings.Join(strings.Fields(sb.String()), " ")
	return strings.TrimSpace(strings.TrimSuffix(text, "*"))
}

// humanize turns "first_name" or "firstName" into "first name".
func humanize(name string) string {
	var out []rune
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			out = append(out, ' ')
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				out = append(out, ' ')
			}
			out = append(out, r-'A'+'a')
		default:
			out = append(out, r)
		}
	}
	return strings.TrimSpace(string(out))
}
