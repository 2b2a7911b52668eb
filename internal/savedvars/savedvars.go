// Package savedvars loads an addon saved-variables file into a name→entry
// mapping. The file is Lua source, but it is treated strictly as data: a
// dedicated parser accepts only assignments of tables, strings, numbers,
// booleans and nil, and can never execute logic from the file.
package savedvars

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrLoad reports a missing or malformed saved-variables file.
var ErrLoad = errors.New("load saved variables")

// ErrSelection reports that an entry prefix matched zero or several entries.
var ErrSelection = errors.New("select entry")

// Entry is one captured session: an ordered sequence of raw transcript lines.
type Entry struct {
	// Name is the saved-variables key, e.g. a capture timestamp. It may
	// carry a client-version prefix used to tag the ruleset.
	Name string
	// Total holds the raw lines in capture order.
	Total []string
}

// LogFile is the read-only mapping of entry name to entry, in file order.
type LogFile struct {
	names   []string
	entries map[string]*Entry
}

// Names returns the entry names in file order.
func (f *LogFile) Names() []string { return f.names }

// Load parses the saved-variables file at path into a LogFile.
func Load(path string) (*LogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	p := &parser{src: string(data)}
	globals, err := p.parseFile()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	file := &LogFile{entries: make(map[string]*Entry)}
	for _, g := range globals {
		tbl, ok := g.value.(*table)
		if !ok {
			continue
		}
		for _, f2 := range tbl.fields {
			name, ok := f2.key.(string)
			if !ok {
				continue
			}
			sess, ok := f2.value.(*table)
			if !ok {
				continue
			}
			entry, err := sessionEntry(name, sess)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %q: %v", ErrLoad, name, err)
			}
			if entry == nil {
				continue
			}
			if _, dup := file.entries[name]; !dup {
				file.names = append(file.names, name)
			}
			file.entries[name] = entry
		}
	}
	if len(file.names) == 0 {
		return nil, fmt.Errorf("%w: no transcript entries in %s", ErrLoad, path)
	}
	return file, nil
}

// sessionEntry extracts the "total" line list from one session table.
// Sessions without a total list are skipped rather than rejected; the addon
// stores auxiliary tables alongside captures.
func sessionEntry(name string, sess *table) (*Entry, error) {
	for _, f := range sess.fields {
		key, ok := f.key.(string)
		if !ok || key != "total" {
			continue
		}
		lines, ok := f.value.(*table)
		if !ok {
			return nil, errors.New(`"total" is not a table`)
		}
		entry := &Entry{Name: name}
		for _, lf := range lines.fields {
			s, ok := lf.value.(string)
			if !ok {
				return nil, errors.New(`"total" contains a non-string line`)
			}
			entry.Total = append(entry.Total, s)
		}
		if len(entry.Total) == 0 {
			return nil, errors.New(`"total" is empty`)
		}
		return entry, nil
	}
	return nil, nil
}

// Select returns the single entry whose name starts with prefix. An empty
// prefix matches every entry. Anything but exactly one match is an
// ErrSelection; the caller disambiguates with a narrower prefix.
func (f *LogFile) Select(prefix string) (*Entry, error) {
	var matches []*Entry
	for _, name := range f.names {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, f.entries[name])
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("%w: no entry matches prefix %q", ErrSelection, prefix)
	default:
		return nil, fmt.Errorf("%w: %d entries match prefix %q, narrow it down", ErrSelection, len(matches), prefix)
	}
}

// --- data-only Lua grammar ---

// table preserves field order; keys are string, float64 or nil (list items).
type table struct {
	fields []field
}

type field struct {
	key   any
	value any
}

type global struct {
	name  string
	value any
}

type parser struct {
	src string
	pos int
	ln  int
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("line %d: "+format, append([]any{p.ln + 1}, args...)...)
}

// parseFile reads a sequence of `Name = value` assignments.
func (p *parser) parseFile() ([]global, error) {
	var globals []global
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}
		name, ok := p.readName()
		if !ok {
			return nil, p.errf("expected assignment name")
		}
		p.skipSpace()
		if !p.consume('=') {
			return nil, p.errf("expected '=' after %s", name)
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		globals = append(globals, global{name: name, value: v})
	}
	if len(globals) == 0 {
		return nil, errors.New("no assignments found")
	}
	return globals, nil
}

func (p *parser) parseValue() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errf("unexpected end of file")
	}
	switch c := p.src[p.pos]; {
	case c == '{':
		return p.parseTable()
	case c == '"' || c == '\'':
		return p.readString()
	case c == '-' || c >= '0' && c <= '9':
		return p.readNumber()
	default:
		name, ok := p.readName()
		if !ok {
			return nil, p.errf("unexpected character %q", c)
		}
		switch name {
		case "nil":
			return nil, nil
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, p.errf("bare name %q is not a data value", name)
	}
}

func (p *parser) parseTable() (*table, error) {
	p.pos++ // '{'
	t := &table{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errf("unterminated table")
		}
		if p.consume('}') {
			return t, nil
		}
		var f field
		if p.consume('[') {
			key, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			switch key.(type) {
			case string, float64:
			default:
				return nil, p.errf("unsupported table key type")
			}
			f.key = key
			p.skipSpace()
			if !p.consume(']') {
				return nil, p.errf("expected ']' after table key")
			}
			p.skipSpace()
			if !p.consume('=') {
				return nil, p.errf("expected '=' after table key")
			}
		} else if name, ok := p.peekNameAssign(); ok {
			f.key = name
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		f.value = v
		t.fields = append(t.fields, f)
		p.skipSpace()
		if !p.consume(',') && !p.consume(';') {
			if !p.consume('}') {
				return nil, p.errf("expected ',' or '}' in table")
			}
			return t, nil
		}
	}
}

// peekNameAssign consumes `Name =` if the upcoming tokens form one,
// returning the field name. Bare data keywords are left for parseValue.
func (p *parser) peekNameAssign() (string, bool) {
	save, saveLn := p.pos, p.ln
	name, ok := p.readName()
	if !ok || name == "nil" || name == "true" || name == "false" {
		p.pos, p.ln = save, saveLn
		return "", false
	}
	p.skipSpace()
	if !p.consume('=') {
		p.pos, p.ln = save, saveLn
		return "", false
	}
	return name, true
}

func (p *parser) readName() (string, bool) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			p.pos > start && c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", false
	}
	return p.src[start:p.pos], true
}

func (p *parser) readNumber() (float64, error) {
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' ||
			c == '+' && p.pos > start && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') ||
			c == '-' && p.pos > start && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	f, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.errf("bad number %q", p.src[start:p.pos])
	}
	return f, nil
}

func (p *parser) readString() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", p.errf("unterminated escape")
			}
			e := p.src[p.pos]
			switch e {
			case 'n':
				b.WriteByte('\n')
				p.pos++
			case 'r':
				b.WriteByte('\r')
				p.pos++
			case 't':
				b.WriteByte('\t')
				p.pos++
			case '\\', '"', '\'':
				b.WriteByte(e)
				p.pos++
			default:
				if e >= '0' && e <= '9' {
					// decimal escape, up to three digits
					n, digits := 0, 0
					for digits < 3 && p.pos < len(p.src) &&
						p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
						n = n*10 + int(p.src[p.pos]-'0')
						p.pos++
						digits++
					}
					if n > 255 {
						return "", p.errf("decimal escape out of range")
					}
					b.WriteByte(byte(n))
				} else {
					return "", p.errf("unsupported escape \\%c", e)
				}
			}
		case '\n':
			return "", p.errf("unterminated string")
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errf("unterminated string")
}

func (p *parser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

// skipSpace advances past whitespace and comments, tracking line numbers.
func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\n':
			p.ln++
			p.pos++
		case c == ' ' || c == '\t' || c == '\r':
			p.pos++
		case c == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '-':
			p.pos += 2
			if p.pos+1 < len(p.src) && p.src[p.pos] == '[' && p.src[p.pos+1] == '[' {
				end := strings.Index(p.src[p.pos+2:], "]]")
				if end < 0 {
					p.pos = len(p.src)
					return
				}
				p.ln += strings.Count(p.src[p.pos:p.pos+2+end+2], "\n")
				p.pos += 2 + end + 2
				continue
			}
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}
