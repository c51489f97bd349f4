package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/ccollicutt/secparse/pkg/entry"
)

// imdataTag is the wrapper element/field moquery puts around top-level records.
const imdataTag = "imdata"

// XMLNormalizer flattens an XML document, one entry per element.
type XMLNormalizer struct{}

// NewXMLNormalizer creates an XML normalizer.
func NewXMLNormalizer() *XMLNormalizer {
	return &XMLNormalizer{}
}

// Normalize parses the document and flattens it. An imdata root element is
// unwrapped and not emitted.
func (n *XMLNormalizer) Normalize(ctx context.Context, r io.Reader) (entry.Sequence, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: parsing xml: %v", entry.ErrStructural, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: xml document has no root element", entry.ErrStructural)
	}

	if root.Tag == imdataTag {
		children := root.ChildElements()
		roots := make([]treeNode, len(children))
		for i, c := range children {
			roots[i] = xmlNode{el: c}
		}
		return flatten(ctx, roots, 1)
	}

	return flatten(ctx, []treeNode{xmlNode{el: root}}, 0)
}

type xmlNode struct {
	el *etree.Element
}

func (n xmlNode) expand() (string, []attribute, []treeNode, error) {
	attrs := make([]attribute, 0, len(n.el.Attr))
	for _, a := range n.el.Attr {
		// Namespace declarations are not record attributes.
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		attrs = append(attrs, attribute{name: a.FullKey(), value: a.Value})
	}

	elems := n.el.ChildElements()
	children := make([]treeNode, len(elems))
	for i, c := range elems {
		children[i] = xmlNode{el: c}
	}

	return n.el.FullTag(), attrs, children, nil
}
