package rowmatch

import (
	"fmt"
	"strings"
)

// JSONDumpCodec is a write-only ObjectCodec that renders the tagged tree
// as indented, JSON-like text. Object members are not separated by commas
// and a primitive writes no value, so the output is not valid JSON. It
// backs DumpStructure for diagnostics and logging; it is not the codec
// Format/Parse use for the wire format.
type JSONDumpCodec struct {
	buf    strings.Builder
	depth  int
	needNL bool
}

// NewJSONDumpCodec returns an empty JSONDumpCodec.
func NewJSONDumpCodec() *JSONDumpCodec {
	return &JSONDumpCodec{}
}

// String returns the text written so far.
func (c *JSONDumpCodec) String() string {
	return c.buf.String()
}

func (c *JSONDumpCodec) indent() {
	if c.needNL {
		c.buf.WriteByte('\n')
		c.buf.WriteString(strings.Repeat("  ", c.depth))
		c.needNL = false
	}
}

func (c *JSONDumpCodec) OpenObject() error {
	c.indent()
	c.buf.WriteByte('{')
	c.depth++
	c.needNL = true
	return nil
}

func (c *JSONDumpCodec) CloseObject() error {
	c.depth--
	c.indent()
	c.buf.WriteByte('}')
	c.needNL = true
	return nil
}

func (c *JSONDumpCodec) WriteTypeTag(tag string) error {
	c.indent()
	fmt.Fprintf(&c.buf, `"type": %q`, tag)
	c.needNL = true
	return nil
}

func (c *JSONDumpCodec) OpenObjectField(name string) error {
	c.indent()
	fmt.Fprintf(&c.buf, `"%s": `, name)
	return nil
}

func (c *JSONDumpCodec) OpenList() error {
	c.buf.WriteByte('[')
	c.depth++
	c.needNL = true
	return nil
}

func (c *JSONDumpCodec) CloseList() error {
	c.depth--
	c.indent()
	c.buf.WriteByte(']')
	c.needNL = true
	return nil
}

func (c *JSONDumpCodec) OpenListItem(i int) error {
	if i > 0 {
		c.buf.WriteByte(',')
	}
	c.indent()
	return nil
}

func (c *JSONDumpCodec) OpenPrimitive() error {
	return nil
}

func (c *JSONDumpCodec) ClosePrimitive() error {
	c.needNL = true
	return nil
}

func (c *JSONDumpCodec) NullValue() error {
	c.indent()
	c.buf.WriteString("null")
	c.needNL = true
	return nil
}
