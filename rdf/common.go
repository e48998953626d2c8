package rdf

import "fmt"

// blankNodeGenerator hands out document-scoped identifiers for blank
// nodes the source never labeled (anonymous nodes, collections, nested
// structures). The "gen" prefix keeps generated labels apart from the
// labels real-world documents tend to use.
type blankNodeGenerator struct {
	counter int
}

func newBlankNodeGenerator() *blankNodeGenerator {
	return &blankNodeGenerator{}
}

func (g *blankNodeGenerator) next() BlankNode {
	g.counter++
	return BlankNode{ID: fmt.Sprintf("gen%d", g.counter)}
}
