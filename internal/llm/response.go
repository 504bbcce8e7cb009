package llm

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Canned replies for the cases where the model gave us nothing usable.
const (
	FallbackNoResponse = "I apologize, but I couldn't get a response from my knowledge base. Can you send that message again?"
	FallbackEmpty      = "I apologize, but I couldn't generate a proper response. Can you send that message again?"
)

// maxUnwrapDepth bounds the answer-inside-answer recursion. Real replies
// nest at most twice; anything deeper is the model misbehaving.
const maxUnwrapDepth = 5

// Normalize coerces a chat-model reply into a clean answer string. The model
// is prompted to return {"answer": "..."} but in practice replies arrive as
// plain text, bare JSON, JSON wrapped in ```json fences, or JSON whose
// answer field itself contains another fenced or JSON-encoded answer.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return FallbackNoResponse
	}

	for depth := 0; depth < maxUnwrapDepth; depth++ {
		s = strings.TrimSpace(s)

		// JSON is unwrapped before fence extraction: when the answer field
		// itself holds a fenced block, slicing the fence out of the raw
		// reply would cut through JSON string escapes.
		if gjson.Valid(s) {
			parsed := gjson.Parse(s)
			if !parsed.IsObject() {
				break
			}

			answer := parsed.Get("answer")
			if !answer.Exists() {
				// A JSON object without an answer key is returned verbatim;
				// the caller asked for something structured (e.g. screening
				// results) and gets to interpret it.
				break
			}

			switch {
			case answer.Type == gjson.String:
				s = answer.Str
			case answer.IsObject():
				s = answer.Raw
			default:
				s = answer.String()
			}
			continue
		}

		if fenced, ok := extractFenced(s); ok {
			s = fenced
			continue
		}

		break
	}

	s = stripFenceMarkers(s)
	s = strings.TrimSpace(s)

	if s == "" {
		return FallbackEmpty
	}
	return s
}

// extractFenced returns the content of the reply's fenced block. Only a
// ```json fence anywhere or a reply that opens with a bare fence count;
// stray fence markers in running text are left for stripFenceMarkers.
func extractFenced(s string) (string, bool) {
	if idx := strings.Index(s, "```json"); idx != -1 {
		return fenceBody(s[idx+len("```json"):]), true
	}
	if strings.HasPrefix(s, "```") {
		rest := strings.TrimPrefix(s, "```")
		rest = strings.TrimPrefix(rest, "python")
		return fenceBody(rest), true
	}
	return "", false
}

func fenceBody(rest string) string {
	if end := strings.Index(rest, "```"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// stripFenceMarkers removes any fence syntax that survived unwrapping.
func stripFenceMarkers(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```python", "")
	return strings.ReplaceAll(s, "```", "")
}
