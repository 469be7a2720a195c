package main

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ydmxcz/nodebalance"
)

// roster is the YAML document lbsim reads:
//
//	selector:
//	  strategy: weighted-round-robin
//	nodes:
//	  - id: a
//	    weight: 3
//	    load: 0.25
type roster struct {
	Selector nodebalance.Config `yaml:"selector"`
	Nodes    []rosterNode       `yaml:"nodes"`
}

type rosterNode struct {
	// ID is optional; a random UUID is used when empty.
	ID     string  `yaml:"id"`
	Weight *int64  `yaml:"weight"`
	Load   float64 `yaml:"load"`
}

// decodeRoster reads a roster from r. Selector settings already present in
// defaults are kept unless the document overrides them.
func decodeRoster(r io.Reader, defaults nodebalance.Config) (roster, error) {
	out := roster{Selector: defaults}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return roster{}, errors.Wrap(err, "decode roster")
	}
	return out, nil
}

// buildNodes turns the roster entries into nodes. Every entry must carry a
// weight, even if it is 0.
func (r roster) buildNodes(ids nodebalance.IDProvider) ([]*nodebalance.Node, error) {
	nodes := make([]*nodebalance.Node, 0, len(r.Nodes))
	for i, rn := range r.Nodes {
		if rn.Weight == nil {
			return nil, errors.Wrapf(nodebalance.ErrInvalidArgument, "node %d: weight is required", i)
		}
		w, err := nodebalance.NewWeight(*rn.Weight)
		if err != nil {
			return nil, errors.Wrapf(err, "node %d", i)
		}

		provider := ids
		if rn.ID != "" {
			id := rn.ID
			provider = nodebalance.IDProviderFunc(func() string { return id })
		}
		n := nodebalance.NewNode(provider)
		n.SetWeight(w)
		n.SetLoad(nodebalance.Load(rn.Load))
		nodes = append(nodes, n)
	}
	return nodes, nil
}
