// Package directorywrapper implements the two bulk ingest/egress operations
// (spec.md §4.4): PlainToProv packs plain files (optionally building on a
// prior used-set) into containers, and ProvToPlain unpacks a directory of
// containers back into plain files, collecting the container ids it
// consumed as the set a downstream activity should declare as used.
//
// PlainToProv with an empty used-set records a leaf activity of the
// derivation DAG: its containers carry no used records at all.
//
// Grounded on the donor's directorywrapper.py: same config+agentinfo
// validation-then-splice flow, same label-sanitation and refuse-to-overwrite
// semantics.
package directorywrapper

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dlr-sp/provtool-go/internal/canon"
	"github.com/dlr-sp/provtool-go/internal/container"
	"github.com/dlr-sp/provtool-go/internal/model"
	"github.com/dlr-sp/provtool-go/internal/schema"
)

var safeLabel = regexp.MustCompile(`^[A-Za-z0-9._ \-]+$`)

// ConfigDoc is the parsed shape of the static --configfile document.
type ConfigDoc struct {
	Activity struct {
		Location string `json:"location"`
		Label    string `json:"label"`
		Means    string `json:"means"`
	} `json:"activity"`
	Agent map[string]interface{} `json:"agent"`
}

// AgentInfoDoc is the parsed shape of the per-invocation --agentinfo document.
type AgentInfoDoc struct {
	Agent map[string]interface{} `json:"agent"`
}

// ResolveAgent loads and validates the optional config and agentinfo files,
// splicing the agentinfo agent to the tail of the config agent's
// acted_on_behalf_of chain (spec.md §4.4). Fails with model.ErrNoAgentDefined
// if neither file yields an agent.
func ResolveAgent(configPath, agentInfoPath string) (model.Agent, *ConfigDoc, error) {
	var cfg *ConfigDoc
	var configAgent model.Agent
	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return nil, nil, err
		}
		if err := schema.ValidateConfig(raw); err != nil {
			return nil, nil, err
		}
		cfg = &ConfigDoc{}
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, nil, err
		}
		if cfg.Agent != nil && agentInfoPath == "" {
			a, err := model.ParseAgentDoc(cfg.Agent)
			if err != nil {
				return nil, nil, err
			}
			configAgent = a
		}
	}

	var infoAgent model.Agent
	if agentInfoPath != "" {
		raw, err := os.ReadFile(agentInfoPath)
		if err != nil {
			return nil, nil, err
		}
		if err := schema.ValidateAgentInfo(raw); err != nil {
			return nil, nil, err
		}
		var doc AgentInfoDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, nil, err
		}
		// With both documents present, the agentinfo agent is attached at the
		// tail of the config agent's document before construction, so a config
		// software agent can take its principal from agentinfo.
		agentDoc := doc.Agent
		if cfg != nil && cfg.Agent != nil {
			tail := cfg.Agent
			for sub, ok := tail["acted_on_behalf_of"].(map[string]interface{}); ok; sub, ok = tail["acted_on_behalf_of"].(map[string]interface{}) {
				tail = sub
			}
			if doc.Agent != nil {
				tail["acted_on_behalf_of"] = doc.Agent
			}
			agentDoc = cfg.Agent
		}
		if agentDoc != nil {
			a, err := model.ParseAgentDoc(agentDoc)
			if err != nil {
				return nil, nil, err
			}
			infoAgent = a
		}
	}

	agent, err := model.SpliceTail(configAgent, infoAgent)
	if err != nil {
		return nil, cfg, err
	}
	if agent == nil {
		return nil, cfg, model.ErrNoAgentDefined
	}
	return agent, cfg, nil
}

// HashFile is a (filename, datahash) pair to pack into a container.
type HashFile struct {
	Path     string
	DataHash string
}

// PlainToProv builds one Activity shared by every file in hashes, and writes
// one <cid>.prov beside each file, preserving whatever directory layout
// hashes was gathered from (spec.md §4.4 plain2prov). If activityID is
// non-empty it forces the Activity identity (so independent invocations
// referencing "the same logical activity" agree on its id). If startedBy is
// non-empty, each container records a wasStartedBy edge to that activity id,
// without expanding the parent (spec.md's "unbounded activities" design
// note).
func PlainToProv(agent model.Agent, location, label, means string, usedSet []string, hashes []HashFile, start, end, activityID, startedBy string) ([]*container.Container, error) {
	activity := model.NewActivity(start, end, location, label, means, usedSet, true)
	return PlainToProvWithActivity(agent, activity, activityID, startedBy, hashes)
}

// PlainToProvWithActivity lets callers supply activity location/label/means
// (the donor's config document supplies these; split out so callers that
// build an Activity themselves, e.g. the Standalone Builder, can reuse
// PlainToProv's per-file write loop without duplicating it). Kept distinct
// from PlainToProv so the Non-goal-adjacent "run_in never uses start/end/
// activity_id/started_by" vestigial parameters (spec.md §9) are never
// threaded through the unpack path below. Each container is written to
// filepath.Dir(hf.Path), mirroring plain2prov's
// os.path.join(os.path.dirname(h.name), provfilename): the donor writes the
// new container next to the specific input file it describes, not into one
// shared output directory, which is what lets a later recursive re-walk
// (CollectUsedSet) recover the original subdirectory layout.
func PlainToProvWithActivity(agent model.Agent, activity *model.Activity, activityID, startedBy string, hashes []HashFile) ([]*container.Container, error) {
	var built []*container.Container
	for _, hf := range hashes {
		entity := model.NewFileEntity(filepath.Base(hf.Path), hf.DataHash)
		b := container.NewBuilder().WithEntity(entity).WithActivity(activity).WithAgent(agent)
		if activityID != "" {
			b = b.WithForcedActivityID(activityID)
		}
		if startedBy != "" {
			b = b.WithStartedBy(startedBy)
		}
		c, err := b.Build()
		if err != nil {
			return nil, err
		}
		dir := filepath.Dir(hf.Path)
		if err := os.WriteFile(filepath.Join(dir, c.CID+".prov"), c.Container, 0o644); err != nil {
			return nil, err
		}
		built = append(built, c)
	}
	return built, nil
}

// ProvToPlain recursively walks inputDir (os.walk in the donor) for *.prov
// files and unpacks each one's payload to <dirname(pf)>/<label>, matching
// prov2plain's nested-subdirectory behavior (the donor's own integration
// test asserts containers below sub1/, sub1/sub11/ and sub2/ are all found
// and unpacked). It intentionally ignores start/end/activity_id/started_by:
// the donor tool accepts these on its unpack entry point but never reads
// them (spec.md §9 Open Question, resolved by omission here). Returns the
// set of container ids read, which a subsequent PlainToProv call should
// declare as usedSet.
func ProvToPlain(inputDir string) (map[string]struct{}, error) {
	used := map[string]struct{}{}
	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".prov" {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		entity, _ := doc["entity"].(map[string]interface{})
		var label, dataHash string
		for _, v := range entity {
			attrs, _ := v.(map[string]interface{})
			label, _ = attrs["prov:label"].(string)
			dataHash, _ = attrs["provtool:datahash"].(string)
		}
		if label == "" {
			return nil
		}
		if !safeLabel.MatchString(label) {
			return ErrUnsafeLabel
		}
		dir := filepath.Dir(path)
		target := filepath.Join(dir, label)
		if _, statErr := os.Stat(target); statErr == nil {
			return ErrTargetExists
		}

		payload, err := readPayload(dir, dataHash)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, payload, 0o644); err != nil {
			return err
		}

		cid, err := verifyContainerCID(path, doc)
		if err != nil {
			return err
		}
		used[cid] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return used, nil
}

// CollectUsedSet recursively walks priorDir for *.prov containers and
// returns their verified cids, for a caller assembling the usedSet argument
// to PlainToProv from a separate directory of already-packed inputs (the
// donor's run_out input_dirpath walk: "for dirname... in os.walk(input_dirpath):
// ... used.add(enthash)").
func CollectUsedSet(priorDir string) ([]string, error) {
	var used []string
	err := filepath.Walk(priorDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".prov" {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		cid, err := verifyContainerCID(path, doc)
		if err != nil {
			return err
		}
		used = append(used, cid)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return used, nil
}

// verifyContainerCID recomputes a container's cid via the same raw-form/
// canonical-hash path internal/store.FileReader.Read uses, rather than
// hashing the on-disk container bytes directly: spec.md §4.2 persists
// container form (entity keyed by cid) but Invariant 1 is defined over the
// raw form (entity keyed "self"), so the filename can only be checked by
// reconstructing and rehashing the raw form (see SPEC_FULL.md Open Question
// resolution 1). Returns container.ErrHashMismatch if the filename, the
// document's own entity key, and the recomputed hash disagree.
func verifyContainerCID(path string, doc map[string]interface{}) (string, error) {
	rawDoc, recoveredCID, err := container.ToRawForm(doc)
	if err != nil {
		return "", err
	}
	rawBytes, err := canon.Marshal(rawDoc)
	if err != nil {
		return "", err
	}
	cid := container.ComputeCID(rawBytes)
	expected := strings.TrimSuffix(filepath.Base(path), ".prov")
	if cid != recoveredCID || cid != expected {
		return "", container.ErrHashMismatch
	}
	return cid, nil
}

func readPayload(dir, dataHash string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, dataHash))
}
