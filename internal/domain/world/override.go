package world

import (
	"regexp"
	"strings"
)

// Override is the per-map minimap display override declared in map notes.
type Override int

const (
	OverrideUnset Override = iota
	OverrideForceOn
	OverrideForceOff
)

const (
	TagMinimapOn  = "minimap on"
	TagMinimapOff = "minimap off"
)

func (o Override) String() string {
	switch o {
	case OverrideForceOn:
		return "on"
	case OverrideForceOff:
		return "off"
	default:
		return "unset"
	}
}

// Value reports the forced visibility and whether the override is set at all.
func (o Override) Value() (visible bool, ok bool) {
	switch o {
	case OverrideForceOn:
		return true, true
	case OverrideForceOff:
		return false, true
	default:
		return false, false
	}
}

var metaTagPattern = regexp.MustCompile(`<([^<>:]+)(:?)([^>]*)>`)

// ParseMeta extracts `<key>` and `<key:value>` tags from a note. Tags without
// a value map to "true".
func ParseMeta(note string) map[string]string {
	out := map[string]string{}
	for _, m := range metaTagPattern.FindAllStringSubmatch(note, -1) {
		if m[2] == ":" {
			out[m[1]] = m[3]
			continue
		}
		out[m[1]] = "true"
	}
	return out
}

// OverrideFromMeta reads the minimap tags. When both are present "on" wins.
func OverrideFromMeta(meta map[string]string) Override {
	if _, ok := meta[TagMinimapOn]; ok {
		return OverrideForceOn
	}
	if _, ok := meta[TagMinimapOff]; ok {
		return OverrideForceOff
	}
	return OverrideUnset
}

func ParseOverride(note string) Override {
	if !strings.Contains(note, "<") {
		return OverrideUnset
	}
	return OverrideFromMeta(ParseMeta(note))
}
