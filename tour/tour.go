package tour

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// fields is a decoded JSON object in its original key order.
type fields = *orderedmap.OrderedMap[string, json.RawMessage]

// Tour is a CodeTour document. Keys this package does not model (ref,
// isPrimary, nextTour, ...) survive a decode/encode cycle in their original position.
type Tour struct {
	Title       string
	Description string
	Steps       []Step

	raw    fields
	opaque []string
}

// Step is one stop of a tour. A step that is not a JSON object is kept as
// read and written back verbatim.
type Step struct {
	File        string
	Description string
	Title       string
	Location    Location

	raw     fields
	opaque  []string
	literal json.RawMessage
}

// LocationKind tags which member of Location is meaningful.
type LocationKind int

const (
	NoLocation LocationKind = iota
	LineLocation
	PatternLocation
	DirectoryLocation
)

func (k LocationKind) String() string {
	switch k {
	case LineLocation:
		return "line"
	case PatternLocation:
		return "pattern"
	case DirectoryLocation:
		return "directory"
	default:
		return "none"
	}
}

// Location pins a step inside the workspace. The zero value is "no location".
type Location struct {
	Kind      LocationKind
	Line      int
	Pattern   string
	Directory string
}

func AtLine(line int) Location              { return Location{Kind: LineLocation, Line: line} }
func AtPattern(pattern string) Location     { return Location{Kind: PatternLocation, Pattern: pattern} }
func AtDirectory(directory string) Location { return Location{Kind: DirectoryLocation, Directory: directory} }

// entry returns the JSON key and value the location is persisted as.
func (l Location) entry() (entry, bool) {
	switch l.Kind {
	case LineLocation:
		return entry{key: "line", value: l.Line, keep: true}, true
	case PatternLocation:
		return entry{key: "pattern", value: l.Pattern, keep: true}, true
	case DirectoryLocation:
		return entry{key: "directory", value: l.Directory, keep: true}, true
	}
	return entry{}, false
}

func (t Tour) MarshalJSON() ([]byte, error) {
	steps := t.Steps
	if steps == nil {
		steps = []Step{}
	}
	return encodeObject(t.raw, t.opaque, []entry{
		{key: "title", value: t.Title, keep: true},
		{key: "description", value: t.Description, keep: t.Description != "" || has(t.raw, "description")},
		{key: "steps", value: steps, keep: true},
	})
}

// UnmarshalJSON accepts any JSON object. Known keys holding a value of an
// unexpected type are left unmodelled and written back as read.
func (t *Tour) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		return err
	}
	out := Tour{raw: m}
	out.Title = out.stringField("title")
	out.Description = out.stringField("description")
	if raw, ok := m.Get("steps"); ok {
		if err := json.Unmarshal(raw, &out.Steps); err != nil {
			out.Steps = nil
			out.opaque = append(out.opaque, "steps")
		}
	}
	if out.Steps == nil {
		out.Steps = []Step{}
	}
	*t = out
	return nil
}

func (t *Tour) stringField(key string) string {
	s, ok := stringField(t.raw, key)
	if !ok && has(t.raw, key) {
		t.opaque = append(t.opaque, key)
	}
	return s
}

// MarshalJSON writes file, the location key, description and title, in that
// order for new steps. Location keys other than the active one that were read
// from disk are passed through untouched.
func (s Step) MarshalJSON() ([]byte, error) {
	if s.literal != nil {
		return s.literal, nil
	}
	known := []entry{{key: "file", value: s.File, keep: s.File != "" || has(s.raw, "file")}}
	if loc, ok := s.Location.entry(); ok {
		known = append(known, loc)
	}
	known = append(known,
		entry{key: "description", value: s.Description, keep: s.Description != "" || s.raw == nil || has(s.raw, "description")},
		entry{key: "title", value: s.Title, keep: s.Title != "" || has(s.raw, "title")},
	)
	return encodeObject(s.raw, s.opaque, known)
}

func (s *Step) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		var lit json.RawMessage
		if json.Unmarshal(data, &lit) != nil {
			return err
		}
		*s = Step{literal: lit}
		return nil
	}
	out := Step{raw: m}
	out.File = out.stringField("file")
	out.Description = out.stringField("description")
	out.Title = out.stringField("title")
	out.Location = decodeLocation(m)
	*s = out
	return nil
}

func (s *Step) stringField(key string) string {
	v, ok := stringField(s.raw, key)
	if !ok && has(s.raw, key) {
		s.opaque = append(s.opaque, key)
	}
	return v
}

// decodeLocation picks one location when a file carries several:
// directory, then pattern, then line. A location key with an unusable value
// is skipped and passed through on save.
func decodeLocation(m fields) Location {
	if d, ok := stringField(m, "directory"); ok {
		return AtDirectory(d)
	}
	if p, ok := stringField(m, "pattern"); ok {
		return AtPattern(p)
	}
	if line, ok := intField(m, "line"); ok {
		return AtLine(line)
	}
	return Location{}
}

type entry struct {
	key   string
	value any
	keep  bool
}

// encodeObject lays known entries over the original object: known keys keep
// their original slot, unknown and opaque keys pass through, new keys are
// appended in the order given.
func encodeObject(raw fields, opaque []string, known []entry) ([]byte, error) {
	byKey := make(map[string]entry, len(known))
	for _, e := range known {
		byKey[e.key] = e
	}

	out := orderedmap.New[string, json.RawMessage]()
	put := func(e entry) error {
		b, err := marshalValue(e.value)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		out.Set(e.key, b)
		return nil
	}

	if raw != nil {
		for p := raw.Oldest(); p != nil; p = p.Next() {
			e, ok := byKey[p.Key]
			if !ok || slices.Contains(opaque, p.Key) {
				out.Set(p.Key, p.Value)
				continue
			}
			if e.keep {
				if err := put(e); err != nil {
					return nil, err
				}
			}
		}
	}
	for _, e := range known {
		if !e.keep {
			continue
		}
		if _, done := out.Get(e.key); done {
			continue
		}
		if err := put(e); err != nil {
			return nil, err
		}
	}
	return writeObject(out)
}

// writeObject serialises m in key order. Values are written as stored so
// text read from disk is not HTML-escaped on the way back out.
func writeObject(m fields) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for p := m.Oldest(); p != nil; p = p.Next() {
		if p != m.Oldest() {
			buf.WriteByte(',')
		}
		key, err := marshalValue(p.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(p.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeObject(data []byte) (fields, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	m := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, m); err != nil {
		return nil, err
	}
	return m, nil
}

// stringField reports whether key holds a string.
func stringField(m fields, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	raw, ok := m.Get(key)
	if !ok || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// intField reports whether key holds an integral number; 5.0 counts.
func intField(m fields, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	raw, ok := m.Get(key)
	if !ok || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// claim drops key from opaque once the caller has set a value for it.
func claim(opaque []string, key string) []string {
	return slices.DeleteFunc(slices.Clone(opaque), func(k string) bool { return k == key })
}

func has(m fields, key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Get(key)
	return ok
}

// marshalValue encodes v without HTML escaping so descriptions keep <, > and & readable on disk.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
