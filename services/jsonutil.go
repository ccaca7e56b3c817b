package services

import "strings"

// ExtractJSON strips markdown code fences and slices out the first JSON
// object. Model output often arrives wrapped in ```json fences.
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return content
	}
	return content[start : end+1]
}
