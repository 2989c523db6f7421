// Package pagerank ranks the pages of a link corpus, both by random
// surfer sampling and by iterating the PageRank formula to
// convergence.
package pagerank

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	// Damping is the conventional damping factor.
	Damping = 0.85
	// Samples is the default random surfer sample count.
	Samples = 10000

	// iteration stops once no rank moves by this much
	convergence = 0.001
)

// Corpus maps each page to the set of corpus pages it links to.
// Self-links and links leaving the corpus are dropped at
// construction.
type Corpus map[string]map[string]struct{}

func NewCorpus(pages map[string][]string) Corpus {
	corpus := make(Corpus, len(pages))
	for page := range pages {
		corpus[page] = make(map[string]struct{})
	}
	for page, links := range pages {
		for _, link := range links {
			if link == page {
				continue
			}
			if _, ok := corpus[link]; !ok {
				continue
			}
			corpus[page][link] = struct{}{}
		}
	}
	return corpus
}

/*
Transition returns the random surfer's distribution over the next
page: with probability damping, a uniformly random outgoing link;
otherwise a uniformly random corpus page. A page without outgoing
links is treated as linking to the whole corpus.
*/
func (c Corpus) Transition(page string, damping float64) (map[string]float64, error) {
	links, ok := c[page]
	if !ok {
		return nil, fmt.Errorf("page %q not in corpus", page)
	}
	if len(links) == 0 {
		damping = 0
	}

	model := make(map[string]float64, len(c))
	for p := range c {
		model[p] = (1 - damping) / float64(len(c))
		if _, linked := links[p]; linked {
			model[p] += damping / float64(len(links))
		}
	}
	return model, nil
}

// SampleRank estimates every page's rank as its visit frequency over
// n steps of the random surfer, starting from a uniformly random
// page. The returned values sum to 1.
func (c Corpus) SampleRank(damping float64, n int, rnd *rand.Rand) (map[string]float64, error) {
	if len(c) == 0 || n <= 0 {
		return nil, fmt.Errorf("nothing to sample")
	}

	pages := c.pages()
	visits := make(map[string]int, len(pages))

	current := pages[rnd.IntN(len(pages))]
	visits[current]++

	for range n - 1 {
		model, err := c.Transition(current, damping)
		if err != nil {
			return nil, err
		}
		current = pick(pages, model, rnd)
		visits[current]++
	}

	ranks := make(map[string]float64, len(pages))
	for _, page := range pages {
		ranks[page] = float64(visits[page]) / float64(n)
	}
	return ranks, nil
}

/*
IterateRank computes exact ranks by repeated application of

	PR(p) = (1-d)/N + d * sum over i linking to p of PR(i)/outdeg(i)

starting from the uniform distribution, until no page's rank moves by
the convergence threshold. Pages without outgoing links contribute
their rank spread over the whole corpus.
*/
func (c Corpus) IterateRank(damping float64) map[string]float64 {
	n := float64(len(c))

	prev := make(map[string]float64, len(c))
	for page := range c {
		prev[page] = 1 / n
	}

	for {
		ranks := make(map[string]float64, len(c))
		done := true
		for page := range c {
			rank := (1 - damping) / n
			inbound := 0.0
			for source, links := range c {
				// A dangling source spreads its rank over the whole
				// corpus, itself included.
				if len(links) == 0 {
					inbound += prev[source] / n
					continue
				}
				if _, ok := links[page]; ok {
					inbound += prev[source] / float64(len(links))
				}
			}
			rank += damping * inbound
			ranks[page] = rank
			if math.Abs(prev[page]-rank) >= convergence {
				done = false
			}
		}
		prev = ranks
		if done {
			return ranks
		}
	}
}

// pages returns a deterministic page order for sampling.
func (c Corpus) pages() []string {
	pages := make([]string, 0, len(c))
	for page := range c {
		pages = append(pages, page)
	}
	return pages
}

func pick(pages []string, weights map[string]float64, rnd *rand.Rand) string {
	x := rnd.Float64()
	acc := 0.0
	for _, page := range pages {
		acc += weights[page]
		if x < acc {
			return page
		}
	}
	// floating point slack lands on the last page
	return pages[len(pages)-1]
}
