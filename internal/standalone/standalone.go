// Package standalone implements the Standalone Builder (spec.md §6.3): a
// single-file provenance writer for users outside of a pipeline, with two
// entry points. Run is an interactive Q&A session that memoizes prior
// answers (internal/standalone/memo) so repeated invocations over the same
// directory default to the previous run's values. RunRepo instead derives
// every Activity/Agent field from a file's most recent git commit
// (SPEC_FULL.md SUPPLEMENTED FEATURES), refusing to run against a dirty
// working tree.
//
// Grounded on standalone.py's Standalone class: same heading/ask/yn_feedback
// shape for Run, same is_dirty/iter_commits/author-name-split derivation for
// RunRepo. Container assembly is delegated to
// internal/directorywrapper.PlainToProvWithActivity so both entry points
// share the donor's single write_prov_file code path instead of duplicating
// it.
package standalone

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"

	"github.com/dlr-sp/provtool-go/internal/container"
	"github.com/dlr-sp/provtool-go/internal/directorywrapper"
	"github.com/dlr-sp/provtool-go/internal/model"
	"github.com/dlr-sp/provtool-go/internal/standalone/memo"
)

const timeLayout = time.RFC3339

// Builder drives the interactive session. in/out let tests replace the
// terminal with an in-memory reader/writer, mirroring how standalone.py's
// tests monkeypatch builtins.input.
type Builder struct {
	Store *memo.Store
	In    *bufio.Reader
	Out   io.Writer
}

// New wraps a memo store around the process's stdin/stdout.
func New(store *memo.Store) *Builder {
	return &Builder{Store: store, In: bufio.NewReader(os.Stdin), Out: os.Stdout}
}

func (b *Builder) heading(text string) {
	bar := strings.Repeat("#", 30)
	fmt.Fprintf(b.Out, "\n\n%s\n%s\n%s\n", bar, text, bar)
}

func (b *Builder) readLine(prompt string) (string, error) {
	fmt.Fprint(b.Out, prompt)
	line, err := b.In.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ynFeedback loops until the user answers "y" or "n", matching
// standalone.py's yn_feedback.
func (b *Builder) ynFeedback(label string) (string, error) {
	for {
		ans, err := b.readLine(label)
		if err != nil {
			return "", err
		}
		if ans == "y" || ans == "n" {
			return ans, nil
		}
	}
}

// Ask returns the memoized value for key if the user confirms keeping it,
// otherwise prompts for a fresh value and memoizes it (standalone.py's
// Standalone.ask).
func (b *Builder) Ask(key, questionLabel string) (string, error) {
	cur, err := b.Store.Get(key)
	if err != nil {
		return "", err
	}
	if cur != "" {
		yn, err := b.ynFeedback(fmt.Sprintf("Keep the following entry for %s: %s [y/n]", key, cur))
		if err != nil {
			return "", err
		}
		if yn == "y" {
			return cur, nil
		}
	}
	if questionLabel == "" {
		questionLabel = fmt.Sprintf("Please enter a value for %s: \n", key)
	}
	v, err := b.readLine(questionLabel)
	if err != nil {
		return "", err
	}
	if err := b.Store.Set(key, v); err != nil {
		return "", err
	}
	return v, nil
}

// WriteProvFile builds one container for the file at entityPath and writes
// <cid>.prov and the raw payload alongside it, appending a
// "<entityPath>=<provfile>" line to provtool_filemapping.txt in the same
// directory (spec.md §6.4). It is the single code path both Run and RunRepo
// funnel through, matching standalone.py's write_prov_file.
func WriteProvFile(activityStart, activityEnd, location, label, means string, used []string, entityPath string, agent model.Agent) (*container.Container, error) {
	data, err := os.ReadFile(entityPath)
	if err != nil {
		return nil, fmt.Errorf("standalone: read %s: %w", entityPath, err)
	}
	dataHash := sha256Hex(data)

	activity := model.NewActivity(activityStart, activityEnd, location, label, means, used, true)
	hf := directorywrapper.HashFile{Path: entityPath, DataHash: dataHash}
	built, err := directorywrapper.PlainToProvWithActivity(agent, activity, "", "", []directorywrapper.HashFile{hf})
	if err != nil {
		return nil, err
	}
	c := built[0]

	dir := filepath.Dir(entityPath)
	rawFile := filepath.Join(dir, dataHash)
	if err := os.WriteFile(rawFile, data, 0o644); err != nil {
		return nil, err
	}

	mappingPath := filepath.Join(dir, "provtool_filemapping.txt")
	f, err := os.OpenFile(mappingPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s=%s.prov\n", entityPath, c.CID); err != nil {
		return nil, err
	}
	return c, nil
}

// Run drives the interactive Q&A session: collects a file, an author chain
// (any number of acted_on_behalf_of delegates), activity details and an
// optional used-entity list, then calls WriteProvFile (standalone.py's
// Standalone.run).
func (b *Builder) Run() (*container.Container, error) {
	b.heading("File")
	entityPath, err := b.Ask("entity_path", "")
	if err != nil {
		return nil, err
	}

	var root model.Agent
	var tail model.Agent
	for {
		b.heading("Author")
		familyName, err := b.Ask("author_family_name", "")
		if err != nil {
			return nil, err
		}
		givenName, err := b.Ask("author_given_name", "")
		if err != nil {
			return nil, err
		}
		person := model.NewPerson(givenName, familyName, nil)
		if root == nil {
			root = person
			tail = person
		} else {
			if err := setDelegate(tail, person); err != nil {
				return nil, err
			}
			tail = person
		}

		yn, err := b.ynFeedback("Are there more authors? [y/n]")
		if err != nil {
			return nil, err
		}
		if yn == "n" {
			break
		}
	}

	b.heading("Activity")
	location, err := b.Ask("activity_location", "")
	if err != nil {
		return nil, err
	}
	label, err := b.Ask("activity_label", "")
	if err != nil {
		return nil, err
	}
	means, err := b.Ask("activity_means", "")
	if err != nil {
		return nil, err
	}
	activityTimeStr, err := b.Ask("activity_time", "")
	if err != nil {
		return nil, err
	}
	activityTime, err := time.Parse(timeLayout, activityTimeStr)
	if err != nil {
		return nil, fmt.Errorf("standalone: parse activity_time: %w", err)
	}

	var used []string
	hasUsed, err := b.ynFeedback("Are there used entities? [y/n]")
	if err != nil {
		return nil, err
	}
	if hasUsed == "y" {
		for {
			id, err := b.Ask("entity_id", "")
			if err != nil {
				return nil, err
			}
			used = append(used, id)

			yn, err := b.ynFeedback("Are there more used entities? [y/n]")
			if err != nil {
				return nil, err
			}
			if yn == "n" {
				break
			}
		}
	}

	ts := activityTime.UTC().Format(timeLayout)
	return WriteProvFile(ts, ts, location, label, means, used, entityPath, root)
}

// setDelegate splices next onto the tail of an already-built chain. Only
// Person, ActingSoftware and Machine carry a settable delegate edge;
// Organization is always terminal.
func setDelegate(tail model.Agent, next model.Agent) error {
	switch v := tail.(type) {
	case *model.Person:
		v.ActedOnBehalfOf = next
	case *model.ActingSoftware:
		v.ActedOnBehalfOf = next
	case *model.Machine:
		v.ActedOnBehalfOf = next
	default:
		return fmt.Errorf("standalone: agent %T cannot delegate further", tail)
	}
	return nil
}

// RunRepo derives every Activity/Agent field from the most recent commit
// touching filePath within the repository at repoPath, instead of asking
// interactively (SPEC_FULL.md SUPPLEMENTED FEATURES, grounded on
// standalone.py's Standalone.run_repo). It refuses to run if the working
// tree has uncommitted changes, and the activity's location is always
// "Unknown" and means "-" since a commit carries neither (matching the
// donor's literal 'Unkown' constant semantics, spelling corrected here).
func RunRepo(repoPath, filePath, activityDescription string) (*container.Container, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("standalone: open repo: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("standalone: worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("standalone: status: %w", err)
	}
	if !status.IsClean() {
		return nil, ErrDirtyRepo
	}

	iter, err := repo.Log(&git.LogOptions{FileName: &filePath})
	if err != nil {
		return nil, fmt.Errorf("standalone: log: %w", err)
	}
	commit, err := iter.Next()
	if err != nil {
		return nil, fmt.Errorf("standalone: no commits touch %s: %w", filePath, err)
	}

	parts := strings.Fields(commit.Author.Name)
	given := ""
	family := ""
	if len(parts) > 0 {
		given = parts[0]
		family = strings.Join(parts[1:], " ")
	}
	author := model.NewPerson(given, family, nil)

	label := fmt.Sprintf("Git commit %s", commit.Hash.String())
	if activityDescription != "" {
		label = fmt.Sprintf("%s. %s", label, activityDescription)
	}

	ts := commit.Author.When.UTC().Format(timeLayout)
	absPath := filepath.Join(repoPath, filePath)
	return WriteProvFile(ts, ts, "Unknown", label, "-", nil, absPath, author)
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
