package extraction

import (
	"Invoice-Service/domain"
	"encoding/json"
	"strings"
)

// stripFences removes markdown code fences the models sometimes wrap around
// their JSON output.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[7:]
	}
	if strings.HasPrefix(text, "```") {
		text = text[3:]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-3]
	}
	return strings.TrimSpace(text)
}

// repairTruncatedJSON balances bracket and brace counts by appending the
// missing closing characters. Long model responses get cut off at the token
// limit, which almost always truncates the tail of an otherwise valid object.
func repairTruncatedJSON(text string) string {
	missingBrackets := strings.Count(text, "[") - strings.Count(text, "]")
	missingBraces := strings.Count(text, "{") - strings.Count(text, "}")

	if missingBrackets > 0 {
		text += strings.Repeat("]", missingBrackets)
	}
	if missingBraces > 0 {
		text += strings.Repeat("}", missingBraces)
	}
	return text
}

// decodeModelJSON strips fences, attempts to unmarshal, and on failure repairs
// truncation once before reparsing.
func decodeModelJSON(text string, v any) error {
	cleaned := stripFences(text)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	repaired := repairTruncatedJSON(cleaned)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return domain.ErrModelResponseInvalid
	}
	return nil
}
