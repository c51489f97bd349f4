package parser

import (
	"context"
	"fmt"

	"github.com/ccollicutt/secparse/pkg/entry"
)

// attribute is one name/value pair of a tree node, in document order.
type attribute struct {
	name  string
	value string
}

// treeNode is implemented by the XML and JSON front-ends. expand yields the
// node's tag, attributes and children.
type treeNode interface {
	expand() (tag string, attrs []attribute, children []treeNode, err error)
}

type frame struct {
	node  treeNode
	depth int
}

// flatten walks the trees rooted at roots depth-first in pre-order and
// emits one entry per node. Roots start at the given depth.
func flatten(ctx context.Context, roots []treeNode, depth int) (entry.Sequence, error) {
	var seq entry.Sequence

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i], depth: depth})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > MaxDepth {
			return nil, fmt.Errorf("%w: node depth exceeds maximum depth %d (recursive loop?)",
				entry.ErrStructural, MaxDepth)
		}
		if len(seq)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		tag, attrs, children, err := f.node.expand()
		if err != nil {
			return nil, err
		}

		b := entry.NewBuilder(tag)
		for _, a := range attrs {
			b.Attr(a.name, a.value)
		}
		seq = append(seq, b.Entry())

		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], depth: f.depth + 1})
		}
	}

	return seq, nil
}
