// Command directorywrapper packs a directory of plain files into provenance
// containers, or unpacks a directory of containers back into plain files
// (spec.md §4.4). It is a thin cobra wrapper over
// internal/directorywrapper's two bulk operations.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dlr-sp/provtool-go/internal/directorywrapper"
	"github.com/dlr-sp/provtool-go/internal/provlog"
)

var (
	configFile      string
	agentInfoFile   string
	inputDir        string
	outputDir       string
	start           string
	end             string
	activityID      string
	startedBy       string
	createActivity  bool
	unpack          bool
)

func main() {
	root := &cobra.Command{
		Use:   "directorywrapper",
		Short: "Pack plain files into provenance containers, or unpack containers into plain files",
		RunE:  run,
	}
	root.Flags().StringVar(&configFile, "configfile", "", "static config document (activity + agent)")
	root.Flags().StringVar(&agentInfoFile, "agentinfo", "", "per-invocation agent document")
	root.Flags().StringVar(&inputDir, "inputdir", ".", "unpack: directory of containers to unpack; pack: directory of prior containers recovered as this activity's used set")
	root.Flags().StringVar(&outputDir, "outputdir", ".", "pack: directory of plain files to wrap, walked recursively; each new container is written beside the file it describes")
	root.Flags().StringVar(&start, "start", "", "activity start time (RFC3339)")
	root.Flags().StringVar(&end, "end", "", "activity end time (RFC3339)")
	root.Flags().StringVar(&activityID, "activityid", "", "force this activity id instead of deriving one")
	root.Flags().StringVar(&startedBy, "startedby", "", "record a wasStartedBy edge to this activity id")
	root.Flags().BoolVar(&createActivity, "createactivityid", false, "print a freshly generated activity id and exit")
	root.Flags().BoolVar(&unpack, "unpack", false, "unpack containers to plain files instead of packing")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if createActivity {
		fmt.Println(uuid.NewString())
		return nil
	}

	logger, err := provlog.New("directorywrapper", provlog.Config{FilePath: provlog.DirectoryWrapperLog, Level: zap.DebugLevel})
	if err != nil {
		return err
	}
	defer logger.Sync()

	if unpack {
		used, err := directorywrapper.ProvToPlain(inputDir)
		if err != nil {
			logger.Error("prov2plain failed", zap.Error(err))
			os.Exit(1)
		}
		ids := make([]string, 0, len(used))
		for id := range used {
			ids = append(ids, id)
		}
		logger.Info("unpacked containers", zap.Strings("used", ids))
		fmt.Println(strings.Join(ids, "\n"))
		return nil
	}

	agent, cfg, err := directorywrapper.ResolveAgent(configFile, agentInfoFile)
	if err != nil {
		logger.Error("resolving agent failed", zap.Error(err))
		os.Exit(1)
	}

	// inputdir recovers the prior containers this activity used (run_out's
	// input_dirpath walk); outputdir holds the new plain files to wrap, and
	// is where each new <cid>.prov is written, next to the file it describes.
	var usedSet []string
	if inputDir != "" {
		usedSet, err = directorywrapper.CollectUsedSet(inputDir)
		if err != nil {
			logger.Error("collecting used set from inputdir failed", zap.Error(err))
			os.Exit(1)
		}
	}

	var hashes []directorywrapper.HashFile
	walkErr := filepath.Walk(outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return rerr
		}
		hashes = append(hashes, directorywrapper.HashFile{Path: path, DataHash: sha256Hex(data)})
		return nil
	})
	if walkErr != nil {
		logger.Error("reading outputdir failed", zap.Error(walkErr))
		os.Exit(1)
	}

	location, label, means := "", "", ""
	if cfg != nil {
		location = cfg.Activity.Location
		label = cfg.Activity.Label
		means = cfg.Activity.Means
	}

	built, err := directorywrapper.PlainToProv(agent, location, label, means, usedSet, hashes, start, end, activityID, startedBy)
	if err != nil {
		logger.Error("plain2prov failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("packed containers", zap.Int("count", len(built)), zap.Int("used", len(usedSet)))
	return nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
