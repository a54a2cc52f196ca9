package summarizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// payload is the schema the model is asked to produce. Fields stay raw so
// each one can be checked and coerced on its own.
type payload struct {
	Summary      json.RawMessage `json:"summary"`
	KeyDecisions json.RawMessage `json:"key_decisions"`
	ActionItems  json.RawMessage `json:"action_items"`
}

type actionPayload struct {
	Task     *string `json:"task"`
	Owner    *string `json:"owner"`
	Deadline *string `json:"deadline"`
}

// Parse validates raw model output against the summary schema. Absent or
// null fields become empty values; wrong types are ErrSummaryParse.
func Parse(raw string) (meeting.StructuredSummary, error) {
	obj, err := extractObject(raw)
	if err != nil {
		return meeting.StructuredSummary{}, parseError(err)
	}

	var p payload
	if err := json.Unmarshal(obj, &p); err != nil {
		return meeting.StructuredSummary{}, parseError(fmt.Errorf("decode object: %w", err))
	}

	var out meeting.StructuredSummary

	if !isNull(p.Summary) {
		if err := json.Unmarshal(p.Summary, &out.Summary); err != nil {
			return meeting.StructuredSummary{}, parseError(fmt.Errorf("summary must be a string: %w", err))
		}
	}

	if !isNull(p.KeyDecisions) {
		var decisions []*string
		if err := json.Unmarshal(p.KeyDecisions, &decisions); err != nil {
			return meeting.StructuredSummary{}, parseError(fmt.Errorf("key_decisions must be a list of strings: %w", err))
		}
		for _, d := range decisions {
			if d == nil {
				continue
			}
			if text := strings.TrimSpace(*d); text != "" {
				out.KeyDecisions = append(out.KeyDecisions, text)
			}
		}
	}

	if !isNull(p.ActionItems) {
		var items []*actionPayload
		if err := json.Unmarshal(p.ActionItems, &items); err != nil {
			return meeting.StructuredSummary{}, parseError(fmt.Errorf("action_items must be a list of objects: %w", err))
		}
		for i, item := range items {
			if item == nil {
				continue
			}
			if item.Task == nil || strings.TrimSpace(*item.Task) == "" {
				return meeting.StructuredSummary{}, parseError(fmt.Errorf("action_items[%d] has no task", i))
			}
			out.ActionItems = append(out.ActionItems, meeting.NewActionItem(
				strings.TrimSpace(*item.Task),
				trimmed(item.Owner),
				trimmed(item.Deadline),
			))
		}
	}

	return out.Normalize(), nil
}

// extractObject strips code fences or chatter around the outermost object.
func extractObject(raw string) ([]byte, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("empty model output")
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in model output")
	}
	return []byte(s[start : end+1]), nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func parseError(err error) error {
	return meeting.Wrap(meeting.ErrSummaryParse, err)
}
