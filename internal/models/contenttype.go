package models

import (
	"fmt"
	"strings"
)

// ContentType identifies the structured format of a text blob.
type ContentType string

const (
	TypeJS   ContentType = "js"
	TypeJSON ContentType = "json"
	TypeCSS  ContentType = "css"
	TypeHTML ContentType = "html"
	TypeSVG  ContentType = "svg"
	TypeXML  ContentType = "xml"
	TypeYAML ContentType = "yaml"
	TypeTOML ContentType = "toml"
	TypeMD   ContentType = "md"
	// TypeNone means no recognizable structure. Empty input is always TypeNone.
	TypeNone ContentType = "none"
)

// allContentTypes is ordered the way types are presented to users.
var allContentTypes = []ContentType{
	TypeJS, TypeCSS, TypeHTML, TypeJSON, TypeXML, TypeSVG, TypeYAML, TypeTOML, TypeMD, TypeNone,
}

// AllContentTypes returns every known content type.
func AllContentTypes() []ContentType {
	out := make([]ContentType, len(allContentTypes))
	copy(out, allContentTypes)
	return out
}

// IsValid reports whether t is one of the known content types.
func (t ContentType) IsValid() bool {
	for _, known := range allContentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (t ContentType) String() string {
	return string(t)
}

// ParseContentType converts a user-supplied name into a ContentType.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return TypeNone, fmt.Errorf("unknown content type %q; valid types are: %s", s, strings.Join(contentTypeNames(), ", "))
	}
	return t, nil
}

func contentTypeNames() []string {
	names := make([]string, len(allContentTypes))
	for i, t := range allContentTypes {
		names[i] = string(t)
	}
	return names
}

// Family groups content types that share one minifier adapter.
type Family int

const (
	// FamilyText covers types that only ever get basic minification.
	FamilyText Family = iota
	FamilyJS
	FamilyCSS
	FamilyHTML
)

// String implements fmt.Stringer.
func (f Family) String() string {
	switch f {
	case FamilyJS:
		return "js"
	case FamilyCSS:
		return "css"
	case FamilyHTML:
		return "html"
	case FamilyText:
		return "text"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// Family returns the adapter family for t.
func (t ContentType) Family() Family {
	switch t {
	case TypeJS, TypeJSON:
		return FamilyJS
	case TypeCSS:
		return FamilyCSS
	case TypeHTML, TypeSVG, TypeXML:
		return FamilyHTML
	default:
		return FamilyText
	}
}

// Auto is the override value that defers to detection.
const Auto = "auto"

// TypeOverride is either Auto or a concrete content type chosen by the user.
type TypeOverride string

// OverrideAuto defers the effective type to the detector.
const OverrideAuto TypeOverride = Auto

// ParseTypeOverride validates a manual type selection. The empty string is
// treated as auto.
func ParseTypeOverride(s string) (TypeOverride, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" || v == Auto {
		return OverrideAuto, nil
	}
	t, err := ParseContentType(v)
	if err != nil {
		return OverrideAuto, err
	}
	return TypeOverride(t), nil
}

// IsAuto reports whether the override defers to detection.
func (o TypeOverride) IsAuto() bool {
	return o == "" || o == OverrideAuto
}

// Resolve returns the effective type given the detector's answer.
func (o TypeOverride) Resolve(detected ContentType) ContentType {
	if o.IsAuto() {
		return detected
	}
	return ContentType(o)
}
