package nrt

import "strings"

// VizNode is a printable copy of a tree node.
type VizNode struct {
	Path     string
	Children []*VizNode
}

// NewVizTree returns a printable copy of the forest, one entry per root.
func NewVizTree(t *Tree) []*VizNode {
	var viz func(int) *VizNode
	viz = func(i int) *VizNode {
		n := t.Node(i)
		v := &VizNode{Path: n.Route.Path()}
		for _, c := range n.Children {
			v.Children = append(v.Children, viz(c))
		}

		return v
	}

	var roots []*VizNode
	for _, r := range t.Roots() {
		roots = append(roots, viz(r))
	}

	return roots
}

func (n *VizNode) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Path)
	sb.WriteByte('\n')
	for _, c := range n.Children {
		c.write(sb, depth+1)
	}
}

func (n *VizNode) String() string {
	var sb strings.Builder
	n.write(&sb, 0)
	return sb.String()
}

// String prints the forest, one node per line, children indented.
func (t *Tree) String() string {
	var sb strings.Builder
	for _, r := range NewVizTree(t) {
		r.write(&sb, 0)
	}

	return sb.String()
}
