package types

import (
	"encoding/json"
	"fmt"
)

// Directive is a post-clone instruction read from the degit.json file at the
// root of fetched content. It is a closed set: only CloneDirective and
// RemoveDirective implement it.
type Directive interface {
	directive()
}

// CloneDirective pulls another repository's output into the same destination.
type CloneDirective struct {
	Src     string `json:"src"`
	Cache   *bool  `json:"cache,omitempty"`
	Verbose *bool  `json:"verbose,omitempty"`
}

// RemoveDirective deletes the named paths from the destination.
type RemoveDirective struct {
	Files StringList `json:"files"`
}

func (CloneDirective) directive()  {}
func (RemoveDirective) directive() {}

// StringList decodes from either a JSON string or a JSON array of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("files must be a string or an array of strings: %w", err)
	}
	*l = StringList(many)
	return nil
}

// DecodeDirectives parses the contents of a degit.json file into an ordered
// directive list. An unknown action value is a decode error, not a silent
// skip.
func DecodeDirectives(data []byte) ([]Directive, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not parse directives: %w", err)
	}

	directives := make([]Directive, 0, len(raw))
	for i, entry := range raw {
		var head struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal(entry, &head); err != nil {
			return nil, fmt.Errorf("could not parse directive %d: %w", i, err)
		}

		switch head.Action {
		case "clone":
			var d CloneDirective
			if err := json.Unmarshal(entry, &d); err != nil {
				return nil, fmt.Errorf("could not parse clone directive %d: %w", i, err)
			}
			if d.Src == "" {
				return nil, fmt.Errorf("clone directive %d is missing src", i)
			}
			directives = append(directives, d)
		case "remove":
			var d RemoveDirective
			if err := json.Unmarshal(entry, &d); err != nil {
				return nil, fmt.Errorf("could not parse remove directive %d: %w", i, err)
			}
			directives = append(directives, d)
		default:
			return nil, fmt.Errorf("unknown directive action %q", head.Action)
		}
	}
	return directives, nil
}
