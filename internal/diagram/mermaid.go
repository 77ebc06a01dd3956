// Package diagram renders a scanned tree as Mermaid graph text. It only
// reads the tree; nodes are never mutated here.
package diagram

import (
	"fmt"
	gopath "path"
	"sort"
	"strings"

	"github.com/blackwell-systems/depscope/internal/filetree"
)

// Style selects which edges the diagram shows.
type Style string

const (
	// StyleDirectory shows directory containment edges only.
	StyleDirectory Style = "directory"
	// StyleDependency shows file dependency edges only.
	StyleDependency Style = "dependency"
	// StyleHybrid shows both.
	StyleHybrid Style = "hybrid"
)

// Options controls diagram generation.
type Options struct {
	Style Style
	// MaxDepth limits directory nesting; 0 means unlimited.
	MaxDepth int
	// MinImportance hides files scoring below this value.
	MinImportance int
}

// Render produces Mermaid "graph TD" text for the tree rooted at root.
// Node labels are basenames; importance bands color the nodes.
func Render(root *filetree.Node, opts Options) string {
	if opts.Style == "" {
		opts.Style = StyleHybrid
	}

	g := &generator{
		opts: opts,
		ids:  map[string]string{},
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	g.collect(root, 0)

	for _, path := range g.order {
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", g.ids[path], gopath.Base(path)))
	}
	for _, e := range g.edges {
		sb.WriteString("    " + e + "\n")
	}
	// Dependency edges are resolved after collection so that targets hidden
	// by MinImportance or MaxDepth never reappear as dangling nodes.
	for _, e := range g.depEdges {
		target, ok := g.ids[e[1]]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", g.ids[e[0]], target))
	}

	sb.WriteString("    classDef critical fill:#ef5350,color:#fff\n")
	sb.WriteString("    classDef high fill:#fff59d\n")
	for _, band := range []struct {
		name  string
		paths []string
	}{{"critical", g.critical}, {"high", g.high}} {
		paths := band.paths
		if len(paths) == 0 {
			continue
		}
		ids := make([]string, len(paths))
		for i, p := range paths {
			ids[i] = g.ids[p]
		}
		sb.WriteString(fmt.Sprintf("    class %s %s\n", strings.Join(ids, ","), band.name))
	}

	return sb.String()
}

type generator struct {
	opts     Options
	ids      map[string]string
	order    []string
	edges    []string
	depEdges [][2]string
	critical []string
	high     []string
	next     int
}

// collect walks the tree pre-order, assigning node ids and gathering edges.
func (g *generator) collect(n *filetree.Node, depth int) {
	if n == nil {
		return
	}
	if n.IsDirectory && g.opts.MaxDepth > 0 && depth > g.opts.MaxDepth {
		return
	}
	if !n.IsDirectory && n.Importance < g.opts.MinImportance {
		return
	}

	g.id(n.Path)
	if !n.IsDirectory {
		switch {
		case n.Importance >= 8:
			g.critical = append(g.critical, n.Path)
		case n.Importance >= 5:
			g.high = append(g.high, n.Path)
		}
	}

	if n.IsDirectory {
		for _, c := range n.Children {
			if c.IsDirectory && g.opts.MaxDepth > 0 && depth+1 > g.opts.MaxDepth {
				continue
			}
			if !c.IsDirectory && c.Importance < g.opts.MinImportance {
				continue
			}
			if g.opts.Style != StyleDependency {
				g.edges = append(g.edges, fmt.Sprintf("%s --- %s", g.id(n.Path), g.id(c.Path)))
			}
			g.collect(c, depth+1)
		}
		return
	}

	if g.opts.Style != StyleDirectory {
		deps := append([]string(nil), n.Dependencies...)
		sort.Strings(deps)
		for _, dep := range deps {
			g.depEdges = append(g.depEdges, [2]string{n.Path, dep})
		}
	}
}

// id returns the stable Mermaid identifier for a path, assigning one on
// first use.
func (g *generator) id(path string) string {
	if id, ok := g.ids[path]; ok {
		return id
	}
	id := fmt.Sprintf("n%d", g.next)
	g.next++
	g.ids[path] = id
	g.order = append(g.order, path)
	return id
}
