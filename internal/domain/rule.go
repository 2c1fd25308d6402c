package domain

// Rule holds the strength of a directed co-purchase edge A -> B.
// Support is the fraction of all baskets containing both items; Confidence is
// the fraction of baskets containing A that also contain B. Both live in [0, 1].
type Rule struct {
	Support    float64 `json:"support"`
	Confidence float64 `json:"confidence"`
}

// IsZero reports whether the rule carries no signal.
func (r Rule) IsZero() bool { return r.Support == 0 && r.Confidence == 0 }

// RuleTable is the mined association table: source item -> target item -> Rule.
// Missing keys read as a zero Rule, never a lookup error. The table never
// contains a self-loop; the miner and the complement merger maintain that.
type RuleTable map[string]map[string]Rule

// Lookup returns the rule for src -> dst, or a zero Rule if absent.
func (t RuleTable) Lookup(src, dst string) Rule {
	return t[src][dst]
}

// Targets returns the outgoing edges of src. May be nil.
func (t RuleTable) Targets(src string) map[string]Rule {
	return t[src]
}

// Put inserts or replaces the edge src -> dst. Self-loops are dropped.
func (t RuleTable) Put(src, dst string, r Rule) {
	if src == dst {
		return
	}
	edges, ok := t[src]
	if !ok {
		edges = make(map[string]Rule)
		t[src] = edges
	}
	edges[dst] = r
}

// Raise lifts the edge src -> dst to at least the given floors, inserting it
// if absent. Mined values stronger than the floors are never lowered.
func (t RuleTable) Raise(src, dst string, floorSupport, floorConfidence float64) {
	if src == dst {
		return
	}
	r := t.Lookup(src, dst)
	if r.Support < floorSupport {
		r.Support = floorSupport
	}
	if r.Confidence < floorConfidence {
		r.Confidence = floorConfidence
	}
	t.Put(src, dst, r)
}
