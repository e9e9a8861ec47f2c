package extract

import (
	"encoding/json"
	"strings"

	"github.com/kailas-cloud/securephotos/internal/domain/photo"
)

// SystemPrompt is sent as the system message of every extraction request.
const SystemPrompt = "You extract metadata filters from user queries about photos."

// BuildPrompt renders the instruction prompt for a query.
// The schema is rendered as an indented JSON object in field order.
func BuildPrompt(query string) string {
	var b strings.Builder
	b.WriteString("You are an assistant that extracts structured metadata filters from a user query ")
	b.WriteString("about photos. Return only a JSON object with keys from this schema if present:\n")
	b.WriteString(renderSchema(photo.Schema()))
	b.WriteString("\n\nUser Query: ")
	b.WriteString(query)
	b.WriteString("\n\nOnly return valid JSON. Do not include markdown formatting or explanations.")
	return b.String()
}

// renderSchema writes descriptors as `{"name": "description", ...}` with two-space indent.
// encoding/json sorts map keys, so the object is assembled by hand.
func renderSchema(fields []photo.FieldDescriptor) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range fields {
		name, _ := json.Marshal(f.Name)
		desc, _ := json.Marshal(f.Description)
		b.WriteString("  ")
		b.Write(name)
		b.WriteString(": ")
		b.Write(desc)
		if i < len(fields)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.String()
}
