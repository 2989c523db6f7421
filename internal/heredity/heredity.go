// Package heredity computes, from a family tree with partially
// observed traits, each person's probability distribution over gene
// copies and trait expression by summing exact joint probabilities
// over every consistent assignment.
package heredity

import (
	"encoding/csv"
	"fmt"
	"io"
)

// population statistics for the gene and its trait
var (
	geneProb = map[int]float64{2: 0.01, 1: 0.03, 0: 0.96}

	traitProb = map[int]map[bool]float64{
		2: {true: 0.65, false: 0.35},
		1: {true: 0.56, false: 0.44},
		0: {true: 0.01, false: 0.99},
	}
)

// mutationProb is the chance a passed-on gene flips either way.
const mutationProb = 0.01

// Person is one row of the family tree. Mother and Father are either
// both empty or both names present in the family. Trait is nil when
// unobserved.
type Person struct {
	Name   string
	Mother string
	Father string
	Trait  *bool
}

type Family map[string]*Person

// LoadCSV reads a family from a name,mother,father,trait CSV with a
// header row. The trait column holds 1, 0 or blank.
func LoadCSV(r io.Reader) (Family, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read family csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("family csv has no data rows")
	}

	family := make(Family, len(records)-1)
	for _, row := range records[1:] {
		if len(row) != 4 {
			return nil, fmt.Errorf("family csv row has %d fields, want 4", len(row))
		}
		p := &Person{Name: row[0], Mother: row[1], Father: row[2]}
		switch row[3] {
		case "1":
			v := true
			p.Trait = &v
		case "0":
			v := false
			p.Trait = &v
		case "":
		default:
			return nil, fmt.Errorf("invalid trait value %q for %s", row[3], p.Name)
		}
		family[p.Name] = p
	}

	for _, p := range family {
		if (p.Mother == "") != (p.Father == "") {
			return nil, fmt.Errorf("%s must have both parents or neither", p.Name)
		}
		if p.Mother != "" {
			if _, ok := family[p.Mother]; !ok {
				return nil, fmt.Errorf("unknown mother %q for %s", p.Mother, p.Name)
			}
			if _, ok := family[p.Father]; !ok {
				return nil, fmt.Errorf("unknown father %q for %s", p.Father, p.Name)
			}
		}
	}
	return family, nil
}

// Group is a set of person names.
type Group map[string]struct{}

func NewGroup(names ...string) Group {
	g := make(Group, len(names))
	for _, name := range names {
		g[name] = struct{}{}
	}
	return g
}

func (g Group) Has(name string) bool {
	_, ok := g[name]
	return ok
}

func genes(name string, oneGene, twoGenes Group) int {
	switch {
	case oneGene.Has(name):
		return 1
	case twoGenes.Has(name):
		return 2
	default:
		return 0
	}
}

// passProb is the chance a parent carrying copies of the gene passes
// one on (or does not, when inherit is false), mutation included.
func passProb(copies int, inherit bool) float64 {
	switch copies {
	case 0:
		if inherit {
			return mutationProb
		}
		return 1 - mutationProb
	case 1:
		return 0.5
	default:
		if inherit {
			return 1 - mutationProb
		}
		return mutationProb
	}
}

/*
JointProbability returns the probability that, simultaneously,
everyone in oneGene has one copy of the gene, everyone in twoGenes
has two, everyone else has none, and exactly the members of haveTrait
show the trait.
*/
func (f Family) JointProbability(oneGene, twoGenes, haveTrait Group) float64 {
	joint := 1.0

	for name, person := range f {
		copies := genes(name, oneGene, twoGenes)

		var p float64
		if person.Mother == "" {
			p = geneProb[copies]
		} else {
			mother := genes(person.Mother, oneGene, twoGenes)
			father := genes(person.Father, oneGene, twoGenes)
			switch copies {
			case 0:
				p = passProb(mother, false) * passProb(father, false)
			case 1:
				p = passProb(mother, true)*passProb(father, false) +
					passProb(mother, false)*passProb(father, true)
			default:
				p = passProb(mother, true) * passProb(father, true)
			}
		}

		p *= traitProb[copies][haveTrait.Has(name)]
		joint *= p
	}

	return joint
}

// Distribution is one person's posterior over gene copies and trait.
type Distribution struct {
	Gene  map[int]float64
	Trait map[bool]float64
}

/*
Distributions sums the joint probability of every gene/trait
assignment consistent with the observed evidence and normalizes the
result per person.
*/
func (f Family) Distributions() map[string]*Distribution {
	result := make(map[string]*Distribution, len(f))
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
		result[name] = &Distribution{
			Gene:  map[int]float64{0: 0, 1: 0, 2: 0},
			Trait: map[bool]float64{true: 0, false: 0},
		}
	}

	for _, haveTrait := range powerset(names) {
		if f.failsEvidence(haveTrait) {
			continue
		}
		for _, oneGene := range powerset(names) {
			rest := without(names, oneGene)
			for _, twoGenes := range powerset(rest) {
				p := f.JointProbability(oneGene, twoGenes, haveTrait)
				for _, name := range names {
					result[name].Gene[genes(name, oneGene, twoGenes)] += p
					result[name].Trait[haveTrait.Has(name)] += p
				}
			}
		}
	}

	for _, dist := range result {
		normalize(dist)
	}
	return result
}

func (f Family) failsEvidence(haveTrait Group) bool {
	for name, person := range f {
		if person.Trait != nil && *person.Trait != haveTrait.Has(name) {
			return true
		}
	}
	return false
}

func powerset(names []string) []Group {
	groups := make([]Group, 0, 1<<len(names))
	for mask := 0; mask < 1<<len(names); mask++ {
		g := make(Group)
		for i, name := range names {
			if mask&(1<<i) != 0 {
				g[name] = struct{}{}
			}
		}
		groups = append(groups, g)
	}
	return groups
}

func without(names []string, exclude Group) []string {
	rest := make([]string, 0, len(names))
	for _, name := range names {
		if !exclude.Has(name) {
			rest = append(rest, name)
		}
	}
	return rest
}

func normalize(dist *Distribution) {
	geneTotal := 0.0
	for _, p := range dist.Gene {
		geneTotal += p
	}
	if geneTotal > 0 {
		for k := range dist.Gene {
			dist.Gene[k] /= geneTotal
		}
	}

	traitTotal := 0.0
	for _, p := range dist.Trait {
		traitTotal += p
	}
	if traitTotal > 0 {
		for k := range dist.Trait {
			dist.Trait[k] /= traitTotal
		}
	}
}
