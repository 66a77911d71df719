package seeder

import (
	"fmt"
	"sort"
)

type DependencyGraph struct {
	targets map[string]*Target
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		targets: make(map[string]*Target),
	}
}

func (g *DependencyGraph) AddTarget(t *Target) {
	g.targets[t.Name] = t
}

// BuildInsertionOrder orders the added targets so every target comes after
// the ones it depends on. Dependencies that were not added are ignored.
func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(name string) error {
		if temp[name] {
			return fmt.Errorf("circular dependency detected involving target: %s", name)
		}
		if visited[name] {
			return nil
		}

		temp[name] = true
		target := g.targets[name]

		if target != nil {
			for _, dep := range target.Dependencies {
				if dep == name {
					continue
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		temp[name] = false
		visited[name] = true
		if target != nil {
			order = append(order, name)
		}
		return nil
	}

	names := make([]string, 0, len(g.targets))
	for name := range g.targets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}

// Missing lists dependencies of the added targets that were not added themselves.
func (g *DependencyGraph) Missing() []string {
	seen := make(map[string]bool)
	var missing []string
	for _, t := range g.targets {
		for _, dep := range t.Dependencies {
			if _, ok := g.targets[dep]; !ok && !seen[dep] {
				seen[dep] = true
				missing = append(missing, dep)
			}
		}
	}
	sort.Strings(missing)
	return missing
}
