// Command file2quilt walks a provenance graph rooted at target_id and
// writes its quilt-layout geometry to image_file (spec.md §4.7). The
// raster back-end that would paint this geometry into pixels is explicitly
// out of scope (spec.md §1 Out of scope: "The specific raster-image
// back-end used to paint the quilt"); this command stops at the same
// geometric Placement the donor's create_image.py consumes, serialized as
// JSON so any renderer can pick it up downstream.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dlr-sp/provtool-go/internal/config"
	"github.com/dlr-sp/provtool-go/internal/provlog"
	"github.com/dlr-sp/provtool-go/internal/quilt"
	"github.com/dlr-sp/provtool-go/internal/store"
	"github.com/dlr-sp/provtool-go/internal/store/wiring"
)

var readerOpts []string

type quiltDocument struct {
	Matrices []matrixGeometry `json:"matrices"`
	Agents   []string         `json:"agents"`
}

type matrixGeometry struct {
	Placement quilt.Placement `json:"placement"`
	Agents    []quilt.Cell    `json:"agent_cells"`
}

func main() {
	root := &cobra.Command{
		Use:   "file2quilt target_id image_file",
		Short: "Render a provenance graph's quilt-layout geometry to a file",
		Args:  cobra.ExactArgs(2),
		RunE:  run,
	}
	root.Flags().StringArrayVar(&readerOpts, "reader", nil, "extra reader option as key=value, repeatable")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	targetID, imageFile := args[0], args[1]

	logger, err := provlog.New("visualisation", provlog.Config{FilePath: provlog.VisualisationLog, Console: true})
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := store.Options{Extra: parseReaderOpts(readerOpts)}
	if root, ok := opts.Extra["root"]; ok {
		opts.Root = root
	}

	registry, err := wiring.BuildRegistry(config.FromEnv())
	if err != nil {
		logger.Error("building reader registry failed", zap.Error(err))
		os.Exit(1)
	}

	provIDs, err := quilt.FindProvIDsRecursive(registry, opts, targetID)
	if err != nil {
		logger.Error("walking provenance graph failed", zap.Error(err))
		os.Exit(1)
	}
	rel := quilt.SearchRelations(registry, opts, provIDs)

	relevantIDs := quilt.FindRelevantIDs(targetID, rel)
	relevantUsed, relevantGenerations := quilt.FindRelevantUsageAndGeneration(relevantIDs, rel)

	matrices := quilt.BuildMatrices(rel.Activities, relevantUsed, relevantGenerations, relevantIDs, rel.Label)
	entityOrder := quilt.GlobalEntityOrder(matrices)

	relevantSet := map[string]bool{}
	for _, id := range relevantIDs {
		relevantSet[id] = true
	}
	var agentLabels []string
	for agent := range rel.Agents {
		if relevantSet[agent] {
			agentLabels = append(agentLabels, rel.Label[agent])
		}
	}

	doc := quiltDocument{Agents: agentLabels}
	y := 0.0
	for _, m := range matrices {
		placement := quilt.PlaceMatrix(m, entityOrder)
		agentCells := quilt.PlaceAgents(m.Elements, rel.Act2AgentLabel, y)
		doc.Matrices = append(doc.Matrices, matrixGeometry{Placement: placement, Agents: agentCells})
		y += placement.Height
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		logger.Error("marshaling quilt geometry failed", zap.Error(err))
		os.Exit(1)
	}
	if err := os.WriteFile(imageFile, out, 0o644); err != nil {
		logger.Error("writing image_file failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("wrote quilt geometry", zap.String("target", targetID), zap.Int("matrices", len(doc.Matrices)))
	return nil
}

func parseReaderOpts(opts []string) map[string]string {
	out := map[string]string{}
	for _, o := range opts {
		parts := strings.SplitN(o, "=", 2)
		if len(parts) == 2 {
			out[parts[0]] = parts[1]
		}
	}
	return out
}
