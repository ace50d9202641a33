package chem

import (
	"sort"
	"strings"
)

// canonicalKey serializes a species independently of monomer order and
// edge numbering. Monomers are first sorted by a local invariant
// signature; monomers sharing a signature are then permuted within
// their group and the lexicographically smallest serialization wins.
// Complexes are small (a handful of molecules), so the group
// permutations stay cheap.
func canonicalKey(s *Species) string {
	n := len(s.Monomers)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	sigs := make([]string, n)
	for i, m := range s.Monomers {
		sigs[i] = monomerSignature(s, i, m)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sigs[order[a]] < sigs[order[b]]
	})

	// group boundaries of equal signatures
	groups := make([][]int, 0, n)
	for i := 0; i < n; {
		j := i
		for j < n && sigs[order[j]] == sigs[order[i]] {
			j++
		}
		groups = append(groups, order[i:j])
		i = j
	}

	best := ""
	permuteGroups(groups, 0, func() {
		key := serializeOrdered(s, order)
		if best == "" || key < best {
			best = key
		}
	})
	return best
}

// monomerSignature is an order-independent fingerprint: name, sorted
// site states, and per-site bond partner names.
func monomerSignature(s *Species, idx int, m SpeciesMonomer) string {
	parts := make([]string, 0, len(m.States)+len(m.Bonds)+1)
	for site, st := range m.States {
		parts = append(parts, site+"~"+st)
	}
	for site := range m.Bonds {
		partner := "?"
		if pi, psite, ok := s.BondPartner(idx, site); ok {
			partner = s.Monomers[pi].Monomer + "." + psite
		}
		parts = append(parts, site+"!"+partner)
	}
	sort.Strings(parts)
	return m.Monomer + "{" + strings.Join(parts, ",") + "}"
}

// permuteGroups enumerates permutations within each group, leaving the
// relative order of groups fixed.
func permuteGroups(groups [][]int, gi int, visit func()) {
	if gi == len(groups) {
		visit()
		return
	}
	g := groups[gi]
	if len(g) <= 1 {
		permuteGroups(groups, gi+1, visit)
		return
	}
	permute(g, 0, func() {
		permuteGroups(groups, gi+1, visit)
	})
}

func permute(g []int, k int, visit func()) {
	if k == len(g) {
		visit()
		return
	}
	for i := k; i < len(g); i++ {
		g[k], g[i] = g[i], g[k]
		permute(g, k+1, visit)
		g[k], g[i] = g[i], g[k]
	}
}

func serializeOrdered(s *Species, order []int) string {
	relabel := make(map[int]int)
	next := 1
	// first-encounter edge renumbering in serialization order
	for _, mi := range order {
		m := s.Monomers[mi]
		sites := sortedBondSites(m)
		for _, site := range sites {
			e := m.Bonds[site]
			if _, ok := relabel[e]; !ok {
				relabel[e] = next
				next++
			}
		}
	}
	parts := make([]string, len(order))
	for i, mi := range order {
		parts[i] = serializeMonomer(s.Monomers[mi], relabel)
	}
	return strings.Join(parts, "%")
}

func sortedBondSites(m SpeciesMonomer) []string {
	sites := make([]string, 0, len(m.Bonds))
	for site := range m.Bonds {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}
