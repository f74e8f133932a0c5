package resolver

import (
	"fmt"
	"sort"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/config"
)

// inheritanceGraph is the directed graph of package inheritance:
// parent -> packages that inherit from it
type inheritanceGraph struct {
	defs     map[string]*config.PackageDef
	edges    map[string][]string
	inDegree map[string]int
	order    map[string]int // configuration position, for stable tie-breaks
}

// buildInheritanceGraph constructs the inheritance graph from the
// configured package definitions
func buildInheritanceGraph(defs []config.PackageDef) *inheritanceGraph {
	g := &inheritanceGraph{
		defs:     make(map[string]*config.PackageDef),
		edges:    make(map[string][]string),
		inDegree: make(map[string]int),
		order:    make(map[string]int),
	}

	for i := range defs {
		g.defs[defs[i].Name] = &defs[i]
		g.inDegree[defs[i].Name] = 0
		g.order[defs[i].Name] = i
	}

	for _, def := range defs {
		if def.Inherits == "" {
			continue
		}
		if _, exists := g.defs[def.Inherits]; !exists {
			// Unknown parents are rejected by config validation; skip here
			continue
		}
		g.edges[def.Inherits] = append(g.edges[def.Inherits], def.Name)
		g.inDegree[def.Name]++
	}

	return g
}

// orderByInheritance returns package names ordered so that every parent
// precedes its children (Kahn's algorithm). An inheritance cycle is a
// fatal configuration error, reported with the names still on the cycle.
func orderByInheritance(defs []config.PackageDef) ([]string, error) {
	graph := buildInheritanceGraph(defs)

	inDegree := make(map[string]int, len(graph.inDegree))
	for name, degree := range graph.inDegree {
		inDegree[name] = degree
	}

	var ordered []string
	for len(inDegree) > 0 {
		var ready []string
		for name, degree := range inDegree {
			if degree == 0 {
				ready = append(ready, name)
			}
		}

		if len(ready) == 0 {
			var stuck []string
			for name := range inDegree {
				stuck = append(stuck, name)
			}
			sort.Strings(stuck)
			return nil, fmt.Errorf("inheritance cycle involving packages %v", stuck)
		}

		// Keep configuration order within a rank for deterministic output
		sort.Slice(ready, func(i, j int) bool {
			return graph.order[ready[i]] < graph.order[ready[j]]
		})

		for _, name := range ready {
			ordered = append(ordered, name)
			delete(inDegree, name)
			for _, child := range graph.edges[name] {
				if _, exists := inDegree[child]; exists {
					inDegree[child]--
				}
			}
		}
	}

	return ordered, nil
}
