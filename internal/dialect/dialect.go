// Package dialect loads message definitions from MAVLink dialect XML and
// resolves them into the encoder's message model. Resolution is eager: a
// schema with an unknown field type or an out-of-range id fails at load
// time, not in the middle of a send run.
package dialect

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/eytandecker/mavforge/internal/mavlink"
)

// xmlDialect mirrors the subset of the dialect schema the loader consumes:
// message elements with id and name attributes and their ordered field
// elements. Descriptions, enums and includes are ignored.
type xmlDialect struct {
	XMLName  xml.Name     `xml:"mavlink"`
	Version  string       `xml:"version"`
	Messages []xmlMessage `xml:"messages>message"`
}

type xmlMessage struct {
	ID     uint32     `xml:"id,attr"`
	Name   string     `xml:"name,attr"`
	Fields []xmlField `xml:"field"`
}

type xmlField struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
}

// Dialect is a loaded message-definition set. Lookups are by id or name;
// Messages preserves file declaration order.
type Dialect struct {
	source string
	order  []*mavlink.Message
	byID   map[uint32]*mavlink.Message
	byName map[string]*mavlink.Message
}

// Load reads and parses a dialect XML file.
func Load(path string) (*Dialect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dialect: read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("dialect: parse %s: %w", path, err)
	}
	d.source = path
	return d, nil
}

// Parse decodes dialect XML and resolves every field type. Field order in
// the file is the payload byte order, so it is preserved exactly.
func Parse(data []byte) (*Dialect, error) {
	var doc xmlDialect
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Messages) == 0 {
		return nil, ErrNoMessages
	}

	d := &Dialect{
		byID:   make(map[uint32]*mavlink.Message, len(doc.Messages)),
		byName: make(map[string]*mavlink.Message, len(doc.Messages)),
	}
	for _, xm := range doc.Messages {
		if xm.ID > mavlink.MaxMessageID {
			return nil, fmt.Errorf("%w: message %s id %d", ErrMessageIDRange, xm.Name, xm.ID)
		}
		if _, dup := d.byID[xm.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateMessage, xm.ID)
		}
		if _, dup := d.byName[xm.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, xm.Name)
		}

		msg := &mavlink.Message{
			ID:     xm.ID,
			Name:   xm.Name,
			Fields: make([]mavlink.Field, 0, len(xm.Fields)),
		}
		for _, xf := range xm.Fields {
			wt, err := mavlink.ResolveWireType(xf.Type)
			if err != nil {
				return nil, fmt.Errorf("message %s field %s: %w", xm.Name, xf.Name, err)
			}
			msg.Fields = append(msg.Fields, mavlink.Field{Name: xf.Name, Type: wt})
		}

		d.order = append(d.order, msg)
		d.byID[msg.ID] = msg
		d.byName[msg.Name] = msg
	}
	return d, nil
}

// Source returns the path the dialect was loaded from, if any.
func (d *Dialect) Source() string {
	return d.source
}

// Len returns the number of loaded message definitions.
func (d *Dialect) Len() int {
	return len(d.order)
}

// Messages returns all definitions in declaration order. Callers must not
// mutate the returned definitions.
func (d *Dialect) Messages() []*mavlink.Message {
	return d.order
}

// First returns the first declared message. Parse guarantees at least one.
func (d *Dialect) First() *mavlink.Message {
	return d.order[0]
}

// MessageByID looks a definition up by numeric id.
func (d *Dialect) MessageByID(id uint32) (*mavlink.Message, error) {
	msg, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", mavlink.ErrUnknownMessage, id)
	}
	return msg, nil
}

// MessageByName looks a definition up by its declared name.
func (d *Dialect) MessageByName(name string) (*mavlink.Message, error) {
	msg, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", mavlink.ErrUnknownMessage, name)
	}
	return msg, nil
}
