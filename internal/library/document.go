package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Document is the persisted form of a Store. Sections keep their order.
type Document struct {
	Sections []*Section
}

type sectionJSON struct {
	Items    []*Item `json:"items"`
	Modified string  `json:"modified,omitempty"`
}

type rawSectionJSON struct {
	Items    []json.RawMessage `json:"items"`
	Modified json.RawMessage   `json:"modified"`
}

// MarshalJSON writes {"sections": {...}} with keys in section order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"sections":{`)
	if d != nil {
		for i, sec := range d.Sections {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(sec.Name)
			if err != nil {
				return nil, err
			}
			items := sec.Items
			if items == nil {
				items = []*Item{}
			}
			payload := sectionJSON{Items: items}
			if !sec.Modified.IsZero() {
				payload.Modified = sec.Modified.UTC().Format(time.RFC3339Nano)
			}
			value, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("encode section %q: %w", sec.Name, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the persisted shape plus legacy item forms: bare
// string items and items missing id or created.
func (d *Document) UnmarshalJSON(data []byte) error {
	var top struct {
		Sections json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(data, &top); err != nil {
		return fmt.Errorf("%w: %v", ErrDataShape, err)
	}
	d.Sections = nil
	trimmed := bytes.TrimSpace(top.Sections)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataShape, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: sections must be an object", ErrDataShape)
	}
	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDataShape, err)
		}
		name, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: section %q: %v", ErrDataShape, name, err)
		}
		sec, err := decodeSection(name, raw)
		if err != nil {
			return err
		}
		if idx, dup := seen[name]; dup {
			d.Sections[idx] = sec
			continue
		}
		seen[name] = len(d.Sections)
		d.Sections = append(d.Sections, sec)
	}
	return nil
}

func decodeSection(name string, raw json.RawMessage) (*Section, error) {
	sec := &Section{Name: name, Items: []*Item{}}
	var body rawSectionJSON
	if err := json.Unmarshal(raw, &body); err != nil {
		// A non-object section value is treated as an empty section.
		return sec, nil
	}
	sec.Modified = parseTimeValue(body.Modified)
	for idx, rawItem := range body.Items {
		it, err := decodeItem(rawItem)
		if err != nil {
			return nil, fmt.Errorf("%w: section %q item %d: %v", ErrDataShape, name, idx, err)
		}
		if it != nil {
			sec.Items = append(sec.Items, it)
		}
	}
	return sec, nil
}

func decodeItem(raw json.RawMessage) (*Item, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, err
		}
		return &Item{Text: strings.TrimSpace(text)}, nil
	}
	var it Item
	if err := json.Unmarshal(trimmed, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// UnmarshalJSON accepts created as RFC3339 text or epoch milliseconds.
func (it *Item) UnmarshalJSON(data []byte) error {
	type alias Item
	var aux struct {
		alias
		CreatedAt json.RawMessage `json:"created"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*it = Item(aux.alias)
	it.CreatedAt = parseTimeValue(aux.CreatedAt)
	return nil
}

func parseTimeValue(raw json.RawMessage) time.Time {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return time.Time{}
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil || strings.TrimSpace(s) == "" {
			return time.Time{}
		}
		if ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s)); err == nil {
			return ts
		}
		if ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}
		return time.Time{}
	}
	if ms, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
		return time.UnixMilli(int64(ms)).UTC()
	}
	return time.Time{}
}

// DecodeDocument parses a persisted document.
func DecodeDocument(data []byte) (*Document, error) {
	doc := &Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		if !errors.Is(err, ErrDataShape) {
			err = fmt.Errorf("%w: %v", ErrDataShape, err)
		}
		return &Document{}, err
	}
	return doc, nil
}

// EncodeDocument renders a document as indented JSON.
func EncodeDocument(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// FromDocument builds a store from a document, normalizing legacy data:
// missing ids are generated, missing created stamps are derived from the
// section's modified time plus the item index in milliseconds, and tags are
// re-normalized.
func FromDocument(doc *Document, opts ...Option) *Store {
	s := NewStore(opts...)
	if doc == nil {
		return s
	}
	for _, src := range doc.Sections {
		if src == nil || strings.TrimSpace(src.Name) == "" || s.HasSection(src.Name) {
			continue
		}
		sec := &Section{Name: src.Name, Items: make([]*Item, 0, len(src.Items)), Modified: src.Modified}
		base := src.Modified
		if base.IsZero() {
			base = s.now()
		}
		for idx, raw := range src.Items {
			if raw == nil {
				continue
			}
			it := raw.Clone()
			if strings.TrimSpace(it.ID) == "" {
				it.ID = NewID()
			}
			if it.CreatedAt.IsZero() {
				it.CreatedAt = base.Add(time.Duration(idx) * time.Millisecond)
			}
			it.Tags = NormalizeTags(it.Tags)
			sec.Items = append(sec.Items, it)
		}
		s.insertSectionAt(sec, -1)
	}
	s.dedupeIDs()
	return s
}

// dedupeIDs reassigns ids that collide with an earlier item.
func (s *Store) dedupeIDs() {
	seen := make(map[string]struct{})
	for _, name := range s.order {
		for _, it := range s.sections[name].Items {
			if _, dup := seen[it.ID]; dup {
				it.ID = NewID()
			}
			seen[it.ID] = struct{}{}
		}
	}
}

// Document returns a deep-copied snapshot suitable for persistence.
func (s *Store) Document() *Document {
	doc := &Document{Sections: make([]*Section, 0, len(s.order))}
	for _, name := range s.order {
		doc.Sections = append(doc.Sections, s.sections[name].Clone())
	}
	return doc
}
