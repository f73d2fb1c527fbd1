// traversal.go builds the Traversal a Matrix-assembly pipeline needs
// straight from a store.Registry, porting file2quilt.py's
// find_prov_ids_recursive / search_prov_files_for_relations /
// find_relevant_ids / find_relevant_usage_and_generation.
package quilt

import (
	"encoding/json"
	"sort"

	"github.com/dlr-sp/provtool-go/internal/store"
)

const unknownAgent = "UNKNOWN_AGENT"

// Relations is everything search_prov_files_for_relations extracted from
// one containment graph: every agent and activity id seen, the
// used/generations maps Traversal needs, the activity-to-associated-agent
// map (and its label-keyed translation, act2ag_trans in the original), and
// a flat id-to-label lookup covering entities, activities and agents.
type Relations struct {
	Agents         map[string]bool
	Activities     []string
	Used           map[string][]string
	Generations    map[string]string
	Act2Agent      map[string]string
	Act2AgentLabel map[string]string
	Label          map[string]string
}

// FindProvIDsRecursive walks the used-edge graph rooted at target,
// returning every container id reached (file2quilt.py's
// find_prov_ids_recursive).
func FindProvIDsRecursive(registry *store.Registry, opts store.Options, target string) ([]string, error) {
	var ids []string
	toScan := []string{target}
	seen := map[string]bool{}
	for len(toScan) > 0 {
		cid := toScan[len(toScan)-1]
		toScan = toScan[:len(toScan)-1]
		if seen[cid] {
			continue
		}
		seen[cid] = true
		ids = append(ids, cid)

		raw, _, err := registry.Read(opts, cid)
		if err != nil {
			continue
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		if usedMap, ok := doc["used"].(map[string]interface{}); ok {
			for _, v := range usedMap {
				rel, _ := v.(map[string]interface{})
				if ent, ok := rel["prov:entity"].(string); ok {
					toScan = append(toScan, ent)
				}
			}
		}
	}
	return ids, nil
}

// SearchRelations reads every container in provIDs and assembles the
// Relations a matrix pipeline needs (file2quilt.py's
// search_prov_files_for_relations).
func SearchRelations(registry *store.Registry, opts store.Options, provIDs []string) Relations {
	r := Relations{
		Agents:         map[string]bool{unknownAgent: true},
		Used:           map[string][]string{},
		Generations:    map[string]string{},
		Act2Agent:      map[string]string{unknownActivity: unknownAgent},
		Act2AgentLabel: map[string]string{},
		Label: map[string]string{
			unknownActivity: "Unknown activity",
			unknownAgent:    "Unknown agent",
		},
	}
	activitySet := map[string]bool{unknownActivity: true}
	usedSet := map[string]map[string]bool{}

	for _, pf := range provIDs {
		raw, _, err := registry.Read(opts, pf)
		if err != nil {
			continue
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}

		activityMap, _ := doc["activity"].(map[string]interface{})
		var actID string
		var actLabel string
		for id, v := range activityMap {
			attrs, _ := v.(map[string]interface{})
			actID = id
			actLabel, _ = attrs["prov:label"].(string)
			break
		}
		if actID == "" {
			continue
		}
		activitySet[actID] = true
		r.Label[actID] = actLabel
		r.Generations[pf] = actID

		agentMap, _ := doc["agent"].(map[string]interface{})
		var associatedPerson string
		for id, v := range agentMap {
			attrs, _ := v.(map[string]interface{})
			r.Agents[id] = true
			lbl, _ := attrs["prov:label"].(string)
			r.Label[id] = lbl
			if associatedPerson == "" {
				if t, _ := attrs["prov:type"].(string); t == "prov:Person" {
					associatedPerson = id
				}
			}
		}
		if associatedPerson != "" {
			r.Act2Agent[actID] = associatedPerson
		}

		if usedMap, ok := doc["used"].(map[string]interface{}); ok {
			for _, v := range usedMap {
				rel, _ := v.(map[string]interface{})
				actRef, _ := rel["prov:activity"].(string)
				entRef, _ := rel["prov:entity"].(string)
				if actRef == "" || entRef == "" {
					continue
				}
				set := usedSet[actRef]
				if set == nil {
					set = map[string]bool{}
					usedSet[actRef] = set
				}
				set[entRef] = true
				if _, ok := r.Label[entRef]; !ok {
					r.Label[entRef] = entRef
				}
				if _, ok := r.Generations[entRef]; !ok {
					r.Generations[entRef] = unknownActivity
				}
			}
		}
	}

	for act, set := range usedSet {
		var ents []string
		for e := range set {
			ents = append(ents, e)
		}
		sort.Strings(ents)
		r.Used[act] = ents
	}

	for act := range activitySet {
		r.Activities = append(r.Activities, act)
	}
	sort.Strings(r.Activities)

	for act, agent := range r.Act2Agent {
		r.Act2AgentLabel[r.Label[act]] = r.Label[agent]
	}

	return r
}

// FindRelevantIDs walks outward from target through generations/used/
// act2agent, collecting every entity, activity and associated-agent id
// touched (file2quilt.py's find_relevant_ids). The result is a flat
// membership set, not a typed graph; callers pass it to BuildMatrices
// purely for "is this activity relevant" checks.
func FindRelevantIDs(target string, rel Relations) []string {
	var out []string
	out = append(out, target)
	ents := []string{target}
	for len(ents) > 0 {
		var acts []string
		for _, e := range ents {
			a, ok := rel.Generations[e]
			if !ok {
				a = unknownActivity
			}
			acts = append(acts, a)
			if agent, ok := rel.Act2Agent[a]; ok {
				out = append(out, agent)
			}
		}
		out = append(out, acts...)

		var next []string
		for _, a := range acts {
			if used, ok := rel.Used[a]; ok {
				next = append(next, used...)
			}
		}
		out = append(out, next...)
		ents = next
	}
	return out
}

// FindRelevantUsageAndGeneration filters rel.Used/Generations down to
// edges whose endpoints are both in relevantIDs (file2quilt.py's
// find_relevant_usage_and_generation).
func FindRelevantUsageAndGeneration(relevantIDs []string, rel Relations) (used map[string][]string, generations map[string]string) {
	relevantSet := toSet(relevantIDs)
	generations = map[string]string{}
	for k, v := range rel.Generations {
		if relevantSet[k] && relevantSet[v] {
			generations[k] = v
		}
	}
	used = map[string][]string{}
	for k, vs := range rel.Used {
		if !relevantSet[k] {
			continue
		}
		var filtered []string
		for _, v := range vs {
			if relevantSet[v] {
				filtered = append(filtered, v)
			}
		}
		used[k] = filtered
	}
	return used, generations
}
