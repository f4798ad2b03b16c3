package inifile

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/google/renameio/v2"
	"gopkg.in/ini.v1"
)

// SectionName is the bracketed header every uwsgi deployment document carries.
const SectionName = "uwsgi"

// Pair is a single key=value line from the document.
type Pair struct {
	Key   string
	Value string
}

// Document is a loaded uwsgi INI document. Comments and key order survive a
// load/write cycle; repeated keys keep every occurrence.
type Document struct {
	file    *ini.File
	section *ini.Section
	path    string
}

func loadOptions() ini.LoadOptions {
	return ini.LoadOptions{
		AllowShadows:             true,
		SpaceBeforeInlineComment: true,
	}
}

// New returns an empty document containing only the [uwsgi] header.
func New() *Document {
	f := ini.Empty(loadOptions())
	sec, _ := f.NewSection(SectionName)

	return &Document{file: f, section: sec}
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	doc.path = path

	return doc, nil
}

// Parse parses raw document bytes. A missing [uwsgi] section is an error:
// the bracketed header is part of the file contract.
func Parse(data []byte) (*Document, error) {
	f, err := ini.LoadSources(loadOptions(), data)
	if err != nil {
		return nil, err
	}

	sec, err := f.GetSection(SectionName)
	if err != nil {
		return nil, fmt.Errorf("missing [%s] section", SectionName)
	}

	return &Document{file: f, section: sec}, nil
}

// Path returns the file the document was loaded from, if any.
func (d *Document) Path() string {
	return d.path
}

// Pairs returns every key=value pair in the [uwsgi] section. Keys appear in
// document order; a repeated key contributes one pair per occurrence.
func (d *Document) Pairs() []Pair {
	var pairs []Pair

	for _, name := range d.section.KeyStrings() {
		for _, v := range d.section.Key(name).ValueWithShadows() {
			pairs = append(pairs, Pair{Key: name, Value: v})
		}
	}

	return pairs
}

// Lookup returns the effective value of key. For a repeated key the last
// occurrence wins, matching how uwsgi stacks options.
func (d *Document) Lookup(key string) (string, bool) {
	if !d.section.HasKey(key) {
		return "", false
	}

	values := d.section.Key(key).ValueWithShadows()

	return values[len(values)-1], true
}

// Values returns every occurrence of key in document order.
func (d *Document) Values(key string) []string {
	if !d.section.HasKey(key) {
		return nil
	}

	return d.section.Key(key).ValueWithShadows()
}

// Keys returns the distinct key names in document order.
func (d *Document) Keys() []string {
	return d.section.KeyStrings()
}

// Set replaces every occurrence of key with a single value.
func (d *Document) Set(key, value string) {
	if d.section.HasKey(key) {
		d.section.DeleteKey(key)
	}

	// NewKey only errors on an empty key name.
	_, _ = d.section.NewKey(key, value)
}

// Add appends another occurrence of key, keeping existing ones.
func (d *Document) Add(key, value string) {
	if !d.section.HasKey(key) {
		_, _ = d.section.NewKey(key, value)
		return
	}

	// Shadows are always enabled in loadOptions, so AddShadow cannot fail.
	_ = d.section.Key(key).AddShadow(value)
}

// Delete removes every occurrence of key.
func (d *Document) Delete(key string) {
	d.section.DeleteKey(key)
}

var placeholderRe = regexp.MustCompile(`%\(([A-Za-z0-9_.-]+)\)`)

// Expand resolves uwsgi %(key) placeholder references against the document's
// own keys. A reference to an unknown key is an error.
func (d *Document) Expand() error {
	for _, name := range d.section.KeyStrings() {
		values := d.section.Key(name).ValueWithShadows()

		expanded := make([]string, len(values))
		changed := false

		for i, v := range values {
			out, err := d.expandValue(v)
			if err != nil {
				return fmt.Errorf("key %q: %w", name, err)
			}

			expanded[i] = out
			if out != v {
				changed = true
			}
		}

		if !changed {
			continue
		}

		if len(expanded) == 1 {
			d.section.Key(name).SetValue(expanded[0])
			continue
		}

		// Repeated keys have to be rewritten wholesale; occurrence order
		// is preserved, position within the section is not.
		d.section.DeleteKey(name)
		for _, v := range expanded {
			d.Add(name, v)
		}
	}

	return nil
}

func (d *Document) expandValue(value string) (string, error) {
	var expandErr error

	out := placeholderRe.ReplaceAllStringFunc(value, func(match string) string {
		ref := placeholderRe.FindStringSubmatch(match)[1]

		resolved, ok := d.Lookup(ref)
		if !ok {
			expandErr = fmt.Errorf("reference to undefined key %q", ref)
			return match
		}

		return resolved
	})

	return out, expandErr
}

// Bytes serializes the document, comments and order intact.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer

	if _, err := d.file.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// SaveAtomic writes the document to path via an atomic rename so a reader
// never observes a partially written file.
func (d *Document) SaveAtomic(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
