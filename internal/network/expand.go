package network

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/erbbfit/internal/chem"
)

// Reaction is one elementary mass-action reaction. Reactant and
// product entries repeat an index once per molecule consumed/produced.
// Rate is the statistical multiplicity applied on top of the rate
// parameter.
type Reaction struct {
	Reactants []int
	Products  []int
	Param     int
	Rate      float64
	RuleName  string
}

type ObsTerm struct {
	Species int
	Count   int
}

type ObservableMap struct {
	Name  string
	Terms []ObsTerm
}

type Network struct {
	Model       *chem.Model
	Species     []*chem.Species
	Reactions   []Reaction
	ParamNames  []string
	ParamValues []float64
	// InitialParam maps species index to the parameter holding its
	// seeded amount, -1 for species created during expansion.
	InitialParam []int
	Observables  []ObservableMap

	speciesIdx map[string]int
	paramIdx   map[string]int
	embCache   map[embKey][][]int
}

// embKey caches pattern embeddings per (rule, reactant slot, species).
type embKey struct {
	rule    *compiledRule
	slot    int
	species int
}

func (n *Network) embeddings(c *compiledRule, slot, species int) ([][]int, error) {
	k := embKey{rule: c, slot: slot, species: species}
	if embs, ok := n.embCache[k]; ok {
		return embs, nil
	}
	embs, err := chem.Embeddings(c.reactants[slot], n.Species[species])
	if err != nil {
		return nil, err
	}
	n.embCache[k] = embs
	return embs, nil
}

type Options struct {
	MaxSpecies int
	MaxComplex int
}

func DefaultOptions() Options {
	return Options{MaxSpecies: 20000, MaxComplex: 12}
}

// Expand generates the full reaction network reachable from the
// model's initial species.
func Expand(m *chem.Model, opts Options) (*Network, error) {
	if opts.MaxSpecies <= 0 || opts.MaxComplex <= 0 {
		opts = DefaultOptions()
	}

	net := &Network{
		Model:      m,
		speciesIdx: make(map[string]int),
		paramIdx:   make(map[string]int, len(m.Parameters)),
		embCache:   make(map[embKey][][]int),
	}
	for _, p := range m.Parameters {
		net.paramIdx[p.Name] = len(net.ParamNames)
		net.ParamNames = append(net.ParamNames, p.Name)
		net.ParamValues = append(net.ParamValues, p.Value)
	}

	rules := directRules(m)
	compiled := make([]*compiledRule, len(rules))
	for i, d := range rules {
		c, err := compileRule(d)
		if err != nil {
			return nil, err
		}
		compiled[i] = c
	}

	for _, init := range m.Initials {
		sp, err := chem.SpeciesFromPattern(m, init.Pattern)
		if err != nil {
			return nil, fmt.Errorf("network: initial condition: %w", err)
		}
		idx, fresh := net.addSpecies(sp)
		if !fresh {
			return nil, fmt.Errorf("network: duplicate initial species %s", sp.Key())
		}
		net.InitialParam[idx] = net.paramIdx[init.Param]
	}

	reactionSeen := make(map[string]int)

	for next := 0; next < len(net.Species); next++ {
		for _, c := range compiled {
			var err error
			if len(c.reactants) == 1 {
				err = net.applyUnimolecular(c, next, opts, reactionSeen)
			} else {
				for j := 0; j <= next; j++ {
					if err = net.applyBimolecular(c, next, j, opts, reactionSeen); err != nil {
						break
					}
				}
			}
			if err != nil {
				return nil, err
			}
			if len(net.Species) > opts.MaxSpecies {
				return nil, fmt.Errorf("%w: more than %d species", ErrSpeciesBound, opts.MaxSpecies)
			}
		}
	}

	if err := net.buildObservables(); err != nil {
		return nil, err
	}
	net.embCache = nil
	return net, nil
}

func (n *Network) addSpecies(sp *chem.Species) (int, bool) {
	key := sp.Key()
	if idx, ok := n.speciesIdx[key]; ok {
		return idx, false
	}
	idx := len(n.Species)
	n.speciesIdx[key] = idx
	n.Species = append(n.Species, sp)
	n.InitialParam = append(n.InitialParam, -1)
	return idx, true
}

// outcome groups embeddings that produce the same product multiset.
type outcome struct {
	products []*chem.Species
	count    int
}

func (n *Network) applyUnimolecular(c *compiledRule, si int, opts Options, seen map[string]int) error {
	embs, err := n.embeddings(c, 0, si)
	if err != nil {
		return err
	}
	outcomes := make(map[string]*outcome)
	for _, emb := range embs {
		products, err := c.apply(n.Model, []*chem.Species{n.Species[si]}, emb, opts.MaxComplex)
		if err != nil {
			return err
		}
		recordOutcome(outcomes, products)
	}
	for _, o := range outcomes {
		mult := float64(o.count)
		if c.matchOnce {
			mult = 1
		}
		n.emit(c, []int{si}, o.products, mult, seen)
	}
	return nil
}

func (n *Network) applyBimolecular(c *compiledRule, si, sj int, opts Options, seen map[string]int) error {
	orientations := [][2]int{{si, sj}}
	if si != sj && !c.symmetric {
		orientations = append(orientations, [2]int{sj, si})
	}

	outcomes := make(map[string]*outcome)
	for _, ori := range orientations {
		a, b := n.Species[ori[0]], n.Species[ori[1]]
		embA, err := n.embeddings(c, 0, ori[0])
		if err != nil {
			return err
		}
		if len(embA) == 0 {
			continue
		}
		embB, err := n.embeddings(c, 1, ori[1])
		if err != nil {
			return err
		}
		nA := len(c.reactants[0].Monomers)
		for _, ea := range embA {
			for _, eb := range embB {
				emb := make([]int, nA+len(eb))
				copy(emb, ea)
				for k, v := range eb {
					emb[nA+k] = v + a.Size()
				}
				products, err := c.apply(n.Model, []*chem.Species{a, b}, emb, opts.MaxComplex)
				if err != nil {
					return err
				}
				recordOutcome(outcomes, products)
			}
		}
	}

	// symmetric rules with distinct operands would otherwise count each
	// unordered embedding pair from both orientations
	for _, o := range outcomes {
		mult := float64(o.count)
		if c.matchOnce {
			mult = 1
		}
		n.emit(c, []int{si, sj}, o.products, mult, seen)
	}
	return nil
}

func recordOutcome(outcomes map[string]*outcome, products []*chem.Species) {
	keys := make([]string, len(products))
	for i, p := range products {
		keys[i] = p.Key()
	}
	sort.Strings(keys)
	k := strings.Join(keys, "+")
	if o, ok := outcomes[k]; ok {
		o.count++
		return
	}
	outcomes[k] = &outcome{products: products, count: 1}
}

func (n *Network) emit(c *compiledRule, reactants []int, products []*chem.Species, mult float64, seen map[string]int) {
	prodIdx := make([]int, len(products))
	for i, p := range products {
		idx, _ := n.addSpecies(p)
		prodIdx[i] = idx
	}
	sort.Ints(prodIdx)
	rIdx := append([]int(nil), reactants...)
	sort.Ints(rIdx)

	key := fmt.Sprintf("%v>%v@%s", rIdx, prodIdx, c.param)
	if i, ok := seen[key]; ok {
		n.Reactions[i].Rate += mult
		return
	}
	seen[key] = len(n.Reactions)
	n.Reactions = append(n.Reactions, Reaction{
		Reactants: rIdx,
		Products:  prodIdx,
		Param:     n.paramIdx[c.param],
		Rate:      mult,
		RuleName:  c.name,
	})
}

func (n *Network) buildObservables() error {
	for _, obs := range n.Model.Observables {
		om := ObservableMap{Name: obs.Name}
		for si, sp := range n.Species {
			count, err := chem.EmbeddingCount(obs.Pattern, sp)
			if err != nil {
				return err
			}
			if count > 0 {
				om.Terms = append(om.Terms, ObsTerm{Species: si, Count: count})
			}
		}
		n.Observables = append(n.Observables, om)
	}
	return nil
}

// SpeciesIndex returns the index of a species by canonical key.
func (n *Network) SpeciesIndex(key string) (int, bool) {
	i, ok := n.speciesIdx[key]
	return i, ok
}

func (n *Network) ParamIndex(name string) (int, bool) {
	i, ok := n.paramIdx[name]
	return i, ok
}
