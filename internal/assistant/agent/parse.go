package agent

import (
	"encoding/json"
	"regexp"
	"strings"
)

var listItemRegex = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+(.+)$`)

// parseTaskList reads tasks from a reply that skipped the tool call. It
// accepts a JSON array, a {"tasks": [...]} object, or a bullet or numbered
// list. Plain lines are used only when no list markers are present.
func parseTaskList(text string) []string {
	text = stripCodeFence(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	switch text[0] {
	case '[':
		var tasks []string
		if err := json.Unmarshal([]byte(text), &tasks); err == nil {
			return cleanTasks(tasks)
		}
	case '{':
		var wrapped SaveFollowUpTasksInput
		if err := json.Unmarshal([]byte(text), &wrapped); err == nil {
			return cleanTasks(wrapped.Tasks)
		}
	}

	var items, plain []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := listItemRegex.FindStringSubmatch(line); m != nil {
			items = append(items, m[1])
			continue
		}
		plain = append(plain, line)
	}
	if len(items) > 0 {
		return cleanTasks(items)
	}
	return cleanTasks(plain)
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}

func cleanTasks(tasks []string) []string {
	result := make([]string, 0, len(tasks))
	for _, task := range tasks {
		task = strings.TrimSpace(strings.Trim(task, "*"))
		task = strings.TrimSpace(task)
		if task != "" {
			result = append(result, task)
		}
	}
	return result
}
