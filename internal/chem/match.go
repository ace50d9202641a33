package chem

// Embeddings returns every injective assignment of pattern monomers to
// monomers of the species that satisfies the pattern's state and bond
// constraints. Each result maps pattern monomer index to species
// monomer index.
func Embeddings(p Pattern, s *Species) ([][]int, error) {
	edges, err := PatternEdges(p)
	if err != nil {
		return nil, err
	}

	// partner[mi][site] = other endpoint, for edge-bound pattern sites
	partner := make([]map[string]EdgeEndpoint, len(p.Monomers))
	for i := range partner {
		partner[i] = make(map[string]EdgeEndpoint)
	}
	for _, eps := range edges {
		partner[eps[0].Mon][eps[0].Site] = eps[1]
		partner[eps[1].Mon][eps[1].Site] = eps[0]
	}

	assign := make([]int, len(p.Monomers))
	used := make([]bool, len(s.Monomers))
	var out [][]int

	var rec func(pi int)
	rec = func(pi int) {
		if pi == len(p.Monomers) {
			emb := make([]int, len(assign))
			copy(emb, assign)
			out = append(out, emb)
			return
		}
		mp := p.Monomers[pi]
		for si := range s.Monomers {
			if used[si] || !monomerMatches(mp, s, si, pi, assign, partner[pi]) {
				continue
			}
			assign[pi] = si
			used[si] = true
			rec(pi + 1)
			used[si] = false
		}
	}
	rec(0)
	return out, nil
}

func monomerMatches(mp MonomerPattern, s *Species, si, pi int, assign []int, partners map[string]EdgeEndpoint) bool {
	sm := s.Monomers[si]
	if sm.Monomer != mp.Monomer {
		return false
	}
	for site, sp := range mp.Sites {
		if sp.State != "" && sm.States[site] != sp.State {
			return false
		}
		_, bonded := sm.Bonds[site]
		switch sp.Bond {
		case BondNone:
			if bonded {
				return false
			}
		case BondAny:
			if !bonded {
				return false
			}
		case BondEdge:
			if !bonded {
				return false
			}
			// if the other endpoint is already assigned, the species
			// bond must connect the two mapped monomers at the right sites
			other := partners[site]
			if other.Mon < pi {
				qi, qsite, ok := s.BondPartner(si, site)
				if !ok || qi != assign[other.Mon] || qsite != other.Site {
					return false
				}
			}
		}
	}
	return true
}

// EmbeddingCount is a convenience for observables: the number of
// embeddings of the pattern in the species.
func EmbeddingCount(p Pattern, s *Species) (int, error) {
	embs, err := Embeddings(p, s)
	if err != nil {
		return 0, err
	}
	return len(embs), nil
}
