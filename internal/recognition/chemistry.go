package recognition

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// formulaOrder puts carbon and hydrogen first, then common heteroatoms.
var formulaOrder = []string{"C", "H", "N", "O", "F", "P", "S", "Cl", "Br", "I"}

var validElements = map[string]bool{
	"H": true, "He": true, "Li": true, "Be": true, "B": true, "C": true, "N": true, "O": true, "F": true, "Ne": true,
	"Na": true, "Mg": true, "Al": true, "Si": true, "P": true, "S": true, "Cl": true, "Ar": true, "K": true, "Ca": true,
	"Fe": true, "Cu": true, "Zn": true, "Br": true, "I": true,
}

// Formula returns the molecular formula of atoms. Elements in formulaOrder
// come first in that order, the rest alphabetically; a count of one is
// omitted.
func Formula(atoms []Atom) string {
	counts := map[string]int{}
	for _, a := range atoms {
		counts[a.Element]++
	}

	rank := func(el string) int {
		for i, o := range formulaOrder {
			if o == el {
				return i
			}
		}
		return len(formulaOrder)
	}
	elements := make([]string, 0, len(counts))
	for el := range counts {
		elements = append(elements, el)
	}
	sort.Slice(elements, func(i, j int) bool {
		ri, rj := rank(elements[i]), rank(elements[j])
		if ri != rj {
			return ri < rj
		}
		return elements[i] < elements[j]
	})

	var sb strings.Builder
	for _, el := range elements {
		sb.WriteString(el)
		if n := counts[el]; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return sb.String()
}

// SMILES returns the structure's SMILES string: the metadata value when
// present, otherwise a depth-first walk from a terminal atom. The walk
// writes bond orders but no branches or ring closures.
func SMILES(s Structure) string {
	if s.Metadata.SMILES != "" {
		return s.Metadata.SMILES
	}
	if len(s.Atoms) == 0 {
		return ""
	}
	if len(s.Atoms) == 1 {
		return s.Atoms[0].Element
	}

	elements := make(map[string]string, len(s.Atoms))
	for _, a := range s.Atoms {
		elements[a.ID] = a.Element
	}
	type edge struct {
		to   string
		bond string
	}
	adjacent := map[string][]edge{}
	for _, b := range s.Bonds {
		adjacent[b.From] = append(adjacent[b.From], edge{b.To, b.Type})
		adjacent[b.To] = append(adjacent[b.To], edge{b.From, b.Type})
	}

	start := s.Atoms[0].ID
	for _, a := range s.Atoms {
		if len(adjacent[a.ID]) == 1 {
			start = a.ID
			break
		}
	}

	var sb strings.Builder
	visited := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		el, ok := elements[id]
		if !ok {
			return
		}
		sb.WriteString(el)
		for _, e := range adjacent[id] {
			if visited[e.to] {
				continue
			}
			switch e.bond {
			case "double":
				sb.WriteByte('=')
			case "triple":
				sb.WriteByte('#')
			case "aromatic":
				sb.WriteByte(':')
			}
			walk(e.to)
		}
	}
	walk(start)
	return sb.String()
}

// Validate reports duplicate atom ids, bonds to missing atoms and unknown
// element symbols. A nil result means the structure is valid.
func Validate(s Structure) []string {
	var problems []string

	ids := make(map[string]bool, len(s.Atoms))
	for _, a := range s.Atoms {
		if ids[a.ID] {
			problems = append(problems, fmt.Sprintf("duplicate atom id %s", a.ID))
		}
		ids[a.ID] = true
	}
	for _, b := range s.Bonds {
		if !ids[b.From] {
			problems = append(problems, fmt.Sprintf("bond %s references missing atom %s", b.ID, b.From))
		}
		if !ids[b.To] {
			problems = append(problems, fmt.Sprintf("bond %s references missing atom %s", b.ID, b.To))
		}
	}
	for _, a := range s.Atoms {
		if !validElements[a.Element] {
			problems = append(problems, fmt.Sprintf("invalid element %q", a.Element))
		}
	}
	return problems
}
