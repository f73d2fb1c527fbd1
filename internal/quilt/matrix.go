package quilt

import "sort"

// Matrix is a two-sided matrix sharing one y-axis (Elements): a left side
// (entities generated at this depth) and a right side (entities consumed
// at this depth), each sparse-indexed by [row, col]. Grounded directly on
// quilt.py's Matrix dataclass.
type Matrix struct {
	LeftHeader  []string
	RightHeader []string
	Left        map[[2]int]string
	Right       map[[2]int]string
	Elements    []string
}

// NewMatrix returns an empty Matrix with initialized maps, mirroring
// quilt.py's Matrix.__init__ defaults.
func NewMatrix() *Matrix {
	return &Matrix{Left: map[[2]int]string{}, Right: map[[2]int]string{}}
}

// Traversal is the input the matrix-assembly algorithm walks: for each
// entity id, which activity generated it (empty means unknown/leaf), and
// for each activity, which entity ids it used. Grounded on
// file2quilt.py's generations/used maps, built by search_prov_files_for_relations.
type Traversal struct {
	// Generations maps an entity id to the activity id that generated it.
	Generations map[string]string
	// Used maps an activity id to the set of entity ids it consumed.
	Used map[string][]string
	// Label resolves any entity/activity/agent id to its display label.
	Label map[string]string
}

const unknownActivity = "UNKNOWN_ACTIVITY"

// RelevantIDs walks the used edges transitively from target, collecting
// every entity and activity id reachable (spec.md §4.7 "Matrix assembly
// from a traversal"), mirroring file2quilt.py's find_relevant_ids.
func RelevantIDs(target string, tr Traversal) []string {
	relevant := []string{target}
	entities := []string{target}
	for len(entities) > 0 {
		var activities []string
		for _, e := range entities {
			act, ok := tr.Generations[e]
			if !ok {
				act = unknownActivity
			}
			activities = append(activities, act)
		}
		relevant = append(relevant, activities...)

		var next []string
		for _, a := range activities {
			if used, ok := tr.Used[a]; ok {
				next = append(next, used...)
			}
		}
		relevant = append(relevant, next...)
		entities = next
	}
	return relevant
}

// BuildMatrices assembles one Matrix per depth, mirroring file2quilt.py's
// create_matrices. The traversal starts at the relevant activities that use
// nothing and advances toward the target, so the target's own activity is
// built last; the list is reversed before return, so index 0 is the
// target's own activity and the last index is the earliest-produced layer.
func BuildMatrices(allActivities []string, relevantUsed map[string][]string, relevantGenerations map[string]string, relevantIDs []string, label map[string]string) []*Matrix {
	relevantSet := toSet(relevantIDs)

	var startActivities []string
	for _, a := range allActivities {
		if _, usesSomething := relevantUsed[a]; !usesSomething && relevantSet[a] {
			startActivities = append(startActivities, a)
		}
	}

	curAct := append([]string{}, startActivities...)
	var matrices []*Matrix
	var before []string
	available := map[string]bool{}

	for len(curAct) > 0 {
		m := NewMatrix()
		var curGenEnt []string
		for ent, act := range relevantGenerations {
			if contains(curAct, act) {
				curGenEnt = append(curGenEnt, ent)
			}
		}
		sort.Strings(curGenEnt)

		for ent, act := range relevantGenerations {
			if contains(curAct, act) {
				m.Left[[2]int{indexOf2(curGenEnt, ent), indexOf2(curAct, act)}] = label[ent]
			}
		}

		off := len(before)
		for act, usedEnts := range relevantUsed {
			for _, e := range usedEnts {
				if !contains(curAct, act) {
					continue
				}
				if bi := indexOf2(before, e); bi >= 0 {
					m.Right[[2]int{bi, indexOf2(curAct, act)}] = label[e]
				} else {
					m.Right[[2]int{off, indexOf2(curAct, act)}] = label[e]
					off++
				}
			}
		}

		m.LeftHeader = labelsOf(curGenEnt, label)
		m.RightHeader = labelsOf(before, label)
		m.Elements = labelsOf(curAct, label)
		matrices = append(matrices, m)

		for _, e := range curGenEnt {
			available[e] = true
		}
		before = curGenEnt

		var nextAct []string
		for act, usedEnts := range relevantUsed {
			genSet := toSet(curGenEnt)
			usedSet := toSet(usedEnts)
			// Only advance to activities whose used-set is a subset of what's
			// available so far, and which actually depend on something just
			// generated (mirrors file2quilt.py's cur_act filter).
			if !subsetDiffNonEmpty(genSet, usedSet) {
				continue
			}
			if !subset(usedSet, available) {
				continue
			}
			nextAct = append(nextAct, act)
		}
		sort.Strings(nextAct)
		curAct = nextAct
	}

	reverse(matrices)
	return matrices
}

func toSet(xs []string) map[string]bool {
	out := make(map[string]bool, len(xs))
	for _, x := range xs {
		out[x] = true
	}
	return out
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}

func indexOf2(xs []string, want string) int {
	for i, x := range xs {
		if x == want {
			return i
		}
	}
	return -1
}

func labelsOf(ids []string, label map[string]string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = label[id]
	}
	return out
}

// subsetDiffNonEmpty reports whether gen \ used is a strict subset of gen
// (i.e. gen and used share at least one element) — used's dependency on
// something in gen is what advances the traversal frontier.
func subsetDiffNonEmpty(gen, used map[string]bool) bool {
	diff := 0
	for g := range gen {
		if !used[g] {
			diff++
		}
	}
	return diff < len(gen)
}

func subset(a, b map[string]bool) bool {
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func reverse(ms []*Matrix) {
	for i, j := 0, len(ms)-1; i < j; i, j = i+1, j-1 {
		ms[i], ms[j] = ms[j], ms[i]
	}
}
