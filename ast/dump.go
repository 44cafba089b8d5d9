package ast

import (
	"bytes"
	"fmt"
	"html"
)

// Dump renders the tree rooted at n as indented XML, one element per line.
func (n *Node) Dump() string {
	var buf bytes.Buffer

	type item struct {
		node  *Node
		depth int
		close bool
	}

	stack := []item{{node: n}}
	for len(stack) != 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := 0; i < it.depth; i++ {
			buf.WriteString("  ")
		}
		if it.close {
			fmt.Fprintf(&buf, "</%s>\n", it.node.Name)
			continue
		}

		buf.WriteByte('<')
		writeAttrs(&buf, it.node)
		if !it.node.HasChildren() {
			buf.WriteString("/>\n")
			continue
		}
		buf.WriteString(">\n")

		stack = append(stack, item{node: it.node, depth: it.depth, close: true})
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{node: it.node.Children[i], depth: it.depth + 1})
		}
	}
	return buf.String()
}

func writeAttrs(buf *bytes.Buffer, n *Node) {
	buf.WriteString(n.Name)
	if v := n.TokenValue(); v != "" {
		fmt.Fprintf(buf, " tokenValue=\"%s\"", html.EscapeString(v))
	}
	if n.Token != nil {
		fmt.Fprintf(buf, " tokenLine=\"%d\" tokenColumn=\"%d\"", n.Token.Line, n.Token.Column)
	}
}
