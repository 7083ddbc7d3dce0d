package walker

import (
	"sort"
	"strings"
)

// Tree renders slash-separated relative paths as an indented directory
// listing rooted at ".". Entries are sorted, directories and files
// intermixed, with └── marking the last entry of each directory.
func Tree(paths []string) string {
	root := &treeNode{children: map[string]*treeNode{}}
	for _, path := range paths {
		node := root
		for _, segment := range strings.Split(path, "/") {
			if segment == "" {
				continue
			}
			child, ok := node.children[segment]
			if !ok {
				child = &treeNode{children: map[string]*treeNode{}}
				node.children[segment] = child
			}
			node = child
		}
	}

	var b strings.Builder
	b.WriteString(".\n")
	renderTree(&b, root, "")
	return b.String()
}

type treeNode struct {
	children map[string]*treeNode
}

func renderTree(b *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(names)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(name)
		b.WriteByte('\n')
		renderTree(b, node.children[name], childPrefix)
	}
}
