package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dlr-sp/provtool-go/internal/canon"
	"github.com/dlr-sp/provtool-go/internal/container"
)

// FileReader is the default Reader: a recursive filesystem walk under
// Options.Root looking for "<cid>.prov" (spec.md §4.3).
type FileReader struct{}

func NewFileReader() *FileReader { return &FileReader{} }

func (f *FileReader) Name() string { return "file" }

func (f *FileReader) Read(opts Options, cid string) ([]byte, []byte, error) {
	path, err := findByName(opts.Root, cid+".prov")
	if err != nil {
		return nil, nil, ErrMissingContainer
	}
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, ErrMissingContainer
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(fileBytes, &doc); err != nil {
		return nil, nil, ErrHashMismatch
	}
	rawDoc, recoveredCID, err := container.ToRawForm(doc)
	if err != nil {
		return nil, nil, ErrHashMismatch
	}
	rawBytes, err := canon.Marshal(rawDoc)
	if err != nil {
		return nil, nil, ErrHashMismatch
	}
	if recoveredCID != cid || container.ComputeCID(rawBytes) != cid {
		return nil, nil, ErrHashMismatch
	}

	entity, _ := doc["entity"].(map[string]interface{})
	attrs, _ := entity[cid].(map[string]interface{})
	dataHash, _ := attrs["provtool:datahash"].(string)
	if dataHash == "" {
		return nil, nil, ErrMissingPayload
	}

	dir := filepath.Dir(path)
	payload, perr := os.ReadFile(filepath.Join(dir, dataHash))
	if perr != nil {
		// Fallback: scan the directory for any sibling whose hash matches.
		match, ferr := scanForHash(dir, dataHash)
		if ferr != nil {
			return nil, nil, ErrMissingPayload
		}
		payload = match
	}
	if sha256Hex(payload) != dataHash {
		return nil, nil, ErrHashMismatch
	}

	canonRaw, err := canon.Marshal(rawDoc)
	if err != nil {
		return nil, nil, ErrHashMismatch
	}
	return canonRaw, payload, nil
}

func (f *FileReader) Search(opts Options, label string) ([]string, error) {
	var matches []string
	err := filepath.Walk(opts.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".prov") {
			return nil
		}
		raw, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil
		}
		var doc map[string]interface{}
		if jerr := json.Unmarshal(raw, &doc); jerr != nil {
			return nil
		}
		entity, _ := doc["entity"].(map[string]interface{})
		for _, v := range entity {
			attrs, _ := v.(map[string]interface{})
			if l, ok := attrs["prov:label"].(string); ok && l == label {
				abs, aerr := filepath.Abs(path)
				if aerr == nil {
					matches = append(matches, abs)
				}
			}
		}
		return nil
	})
	return matches, err
}

func findByName(root, name string) (string, error) {
	var found string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || found != "" {
			return nil
		}
		if !info.IsDir() && info.Name() == name {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", os.ErrNotExist
	}
	return found, nil
}

func scanForHash(dir, wantHash string) ([]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".prov") {
			continue
		}
		data, rerr := os.ReadFile(filepath.Join(dir, e.Name()))
		if rerr != nil {
			continue
		}
		if sha256Hex(data) == wantHash {
			return data, nil
		}
	}
	return nil, os.ErrNotExist
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
