package navigation

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// unknown builds the error for a missing step with the closest registered
// names of the same kind, or the closest kinds when the kind itself is unknown.
func (g *Graph) unknown(key Key) *UnknownStepError {
	var names, kinds []string
	seenKind := make(map[string]bool)
	for k := range g.steps {
		if k.Kind == key.Kind {
			names = append(names, k.Name)
		}
		if !seenKind[k.Kind] {
			seenKind[k.Kind] = true
			kinds = append(kinds, k.Kind)
		}
	}
	if len(names) > 0 {
		return &UnknownStepError{Kind: key.Kind, Name: key.Name, Suggestions: closest(key.Name, names)}
	}
	return &UnknownStepError{Kind: key.Kind, Name: key.Name, Suggestions: closest(key.Kind, kinds)}
}

func closest(word string, candidates []string) []string {
	type scored struct {
		s    string
		dist int
	}
	limit := len(word)/2 + 1
	var hits []scored
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(word, c); d <= limit {
			hits = append(hits, scored{c, d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].s < hits[j].s
	})
	var out []string
	for i := 0; i < len(hits) && i < maxSuggestions; i++ {
		out = append(out, hits[i].s)
	}
	return out
}
