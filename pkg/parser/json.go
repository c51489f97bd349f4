package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ccollicutt/secparse/pkg/entry"
)

// JSONNormalizer flattens a moquery JSON document. Every node is a
// single-key object {"<tag>": {"attributes": {...}, "children": [...]}}.
type JSONNormalizer struct{}

// NewJSONNormalizer creates a JSON normalizer.
func NewJSONNormalizer() *JSONNormalizer {
	return &JSONNormalizer{}
}

// Normalize reads the whole document and flattens it. A top-level imdata
// list is unwrapped; otherwise the document itself is the root node.
//
// The document is walked token by token. encoding/json caps nesting at
// 10000 levels per decoded value and each tree level costs three, so no
// node subtree is ever decoded in one call.
func (n *JSONNormalizer) Normalize(ctx context.Context, r io.Reader) (entry.Sequence, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}

	wrapped, err := hasImdata(data)
	if err != nil {
		return nil, err
	}

	d := newJSONDecoder(ctx, data)
	if !wrapped {
		root, err := d.node(0)
		if err != nil {
			return nil, err
		}
		if err := d.end(); err != nil {
			return nil, err
		}
		return flatten(ctx, []treeNode{root}, 0)
	}

	roots, err := d.imdata()
	if err != nil {
		return nil, err
	}
	return flatten(ctx, roots, 1)
}

// hasImdata checks that data is a single JSON object and reports whether it
// has a top-level imdata key.
func hasImdata(data []byte) (bool, error) {
	d := newJSONDecoder(context.Background(), data)
	if err := d.open('{', "document is not an object"); err != nil {
		return false, err
	}

	found := false
	for d.dec.More() {
		key, err := d.key()
		if err != nil {
			return false, err
		}
		if key == imdataTag {
			found = true
		}
		if err := d.skip(); err != nil {
			return false, err
		}
	}
	if err := d.close(); err != nil {
		return false, err
	}
	return found, d.end()
}

// jsonNode is a decoded node; expand hands its parts to flatten.
type jsonNode struct {
	tag      string
	attrs    []attribute
	children []treeNode
}

func (n *jsonNode) expand() (string, []attribute, []treeNode, error) {
	return n.tag, n.attrs, n.children, nil
}

type jsonDecoder struct {
	ctx   context.Context
	dec   *json.Decoder
	nodes int
}

func newJSONDecoder(ctx context.Context, data []byte) *jsonDecoder {
	return &jsonDecoder{ctx: ctx, dec: json.NewDecoder(bytes.NewReader(data))}
}

func (d *jsonDecoder) token() (json.Token, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: parsing json: %v", entry.ErrStructural, err)
	}
	return tok, nil
}

// open consumes the delimiter want or fails with msg.
func (d *jsonDecoder) open(want json.Delim, msg string) error {
	tok, err := d.token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("%w: %s", entry.ErrStructural, msg)
	}
	return nil
}

// close consumes the closing delimiter of the current object or list.
func (d *jsonDecoder) close() error {
	_, err := d.token()
	return err
}

func (d *jsonDecoder) key() (string, error) {
	tok, err := d.token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: unexpected object key %v", entry.ErrStructural, tok)
	}
	return key, nil
}

// skip consumes one value without decoding it as a whole.
func (d *jsonDecoder) skip() error {
	depth := 0
	for {
		tok, err := d.token()
		if err != nil {
			return err
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
		if depth == 0 {
			return nil
		}
	}
}

// end fails unless the document has been fully consumed.
func (d *jsonDecoder) end() error {
	if _, err := d.dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: parsing json: unexpected data after top-level value", entry.ErrStructural)
	}
	return nil
}

// imdata decodes the nodes of the top-level imdata list and skips every
// other key of the document.
func (d *jsonDecoder) imdata() ([]treeNode, error) {
	if err := d.open('{', "document is not an object"); err != nil {
		return nil, err
	}

	var roots []treeNode
	for d.dec.More() {
		key, err := d.key()
		if err != nil {
			return nil, err
		}
		if key != imdataTag {
			if err := d.skip(); err != nil {
				return nil, err
			}
			continue
		}
		if err := d.open('[', imdataTag+" is not a list"); err != nil {
			return nil, err
		}
		roots = roots[:0]
		for d.dec.More() {
			n, err := d.node(1)
			if err != nil {
				return nil, err
			}
			roots = append(roots, n)
		}
		if err := d.close(); err != nil {
			return nil, err
		}
	}
	if err := d.close(); err != nil {
		return nil, err
	}
	return roots, d.end()
}

// node decodes {"<tag>": {"attributes": {...}, "children": [...]}} at the
// given depth. Body keys match exactly; other body keys are skipped.
func (d *jsonDecoder) node(depth int) (*jsonNode, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: node depth exceeds maximum depth %d (recursive loop?)",
			entry.ErrStructural, MaxDepth)
	}
	d.nodes++
	if d.nodes%4096 == 0 {
		if err := d.ctx.Err(); err != nil {
			return nil, err
		}
	}

	if err := d.open('{', "unexpected node shape"); err != nil {
		return nil, err
	}
	if !d.dec.More() {
		return nil, fmt.Errorf("%w: unexpected key count 0 for node", entry.ErrStructural)
	}
	tag, err := d.key()
	if err != nil {
		return nil, err
	}
	if err := d.open('{', fmt.Sprintf("node %q is not an object", tag)); err != nil {
		return nil, err
	}

	n := &jsonNode{tag: tag}
	haveAttrs := false
	for d.dec.More() {
		key, err := d.key()
		if err != nil {
			return nil, err
		}
		switch key {
		case "attributes":
			if n.attrs, err = d.attributes(tag); err != nil {
				return nil, err
			}
			haveAttrs = true
		case "children":
			if n.children, err = d.children(tag, depth); err != nil {
				return nil, err
			}
		default:
			if err := d.skip(); err != nil {
				return nil, err
			}
		}
	}
	if err := d.close(); err != nil {
		return nil, err
	}
	if !haveAttrs {
		return nil, fmt.Errorf("%w: node %q has no attributes", entry.ErrStructural, tag)
	}

	if d.dec.More() {
		return nil, fmt.Errorf("%w: unexpected key count for node %q, want 1", entry.ErrStructural, tag)
	}
	if err := d.close(); err != nil {
		return nil, err
	}
	return n, nil
}

// attributes decodes an attribute object keeping key order, which a map
// would lose.
func (d *jsonDecoder) attributes(tag string) ([]attribute, error) {
	if err := d.open('{', fmt.Sprintf("attributes of %q is not an object", tag)); err != nil {
		return nil, err
	}

	var attrs []attribute
	for d.dec.More() {
		key, err := d.key()
		if err != nil {
			return nil, err
		}
		var value json.RawMessage
		if err := d.dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: node %q attribute %q: %v", entry.ErrStructural, tag, key, err)
		}
		attrs = append(attrs, attribute{name: key, value: attributeText(value)})
	}
	return attrs, d.close()
}

func (d *jsonDecoder) children(tag string, depth int) ([]treeNode, error) {
	if err := d.open('[', fmt.Sprintf("children for node %q is not a list", tag)); err != nil {
		return nil, err
	}

	var children []treeNode
	for d.dec.More() {
		child, err := d.node(depth + 1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, d.close()
}

// attributeText renders strings unquoted and any other value as compact JSON.
func attributeText(v json.RawMessage) string {
	if leadingByte(v) == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}

// leadingByte returns the first non-whitespace byte of a JSON value.
func leadingByte(raw []byte) byte {
	t := bytes.TrimLeft(raw, " \t\r\n")
	if len(t) == 0 {
		return 0
	}
	return t[0]
}
