package task

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Priority is the display emphasis of a task.
type Priority int

const (
	Low Priority = iota
	Medium
	High
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "Low"
	case High:
		return "High"
	default:
		return "Medium"
	}
}

// ParsePriority maps text onto a Priority, ignoring case but not surrounding
// whitespace. Unrecognized text yields Medium with ok=false so the caller can
// warn about the substitution.
func ParsePriority(text string) (p Priority, ok bool) {
	switch strings.ToLower(text) {
	case "low":
		return Low, true
	case "medium":
		return Medium, true
	case "high":
		return High, true
	default:
		return Medium, false
	}
}

func priorityFromTag(tag string) (Priority, error) {
	switch tag {
	case "Low":
		return Low, nil
	case "Medium":
		return Medium, nil
	case "High":
		return High, nil
	default:
		return Medium, fmt.Errorf("unknown priority %q", tag)
	}
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	var tag string
	if err := json.Unmarshal(b, &tag); err != nil {
		return err
	}
	v, err := priorityFromTag(tag)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Priority) MarshalYAML() (any, error) {
	return p.String(), nil
}

func (p *Priority) UnmarshalYAML(node *yaml.Node) error {
	var tag string
	if err := node.Decode(&tag); err != nil {
		return err
	}
	v, err := priorityFromTag(tag)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
