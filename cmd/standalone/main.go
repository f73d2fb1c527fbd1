// Command standalone drives the interactive provenance builder, or its
// git-commit-driven sibling when --repopath/--filepath are given (spec.md
// §6.3, SPEC_FULL.md SUPPLEMENTED FEATURES).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dlr-sp/provtool-go/internal/config"
	"github.com/dlr-sp/provtool-go/internal/standalone"
	"github.com/dlr-sp/provtool-go/internal/standalone/memo"
)

var (
	repoPath            string
	filePath            string
	activityDescription string
)

func main() {
	root := &cobra.Command{
		Use:   "standalone",
		Short: "Interactively build one provenance container, or derive one from a git commit",
		RunE:  run,
	}
	root.Flags().StringVar(&repoPath, "repopath", "", "path to the repository to derive a container from")
	root.Flags().StringVar(&filePath, "filepath", "", "file within the repository, relative to its root")
	root.Flags().StringVar(&activityDescription, "description", "", "appended to the derived activity label")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()

	if repoPath != "" || filePath != "" {
		c, err := standalone.RunRepo(repoPath, filePath, activityDescription)
		if err != nil {
			return err
		}
		fmt.Println(c.CID)
		return nil
	}

	store, err := openMemoStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	b := standalone.New(store)
	c, err := b.Run()
	if err != nil {
		return err
	}
	fmt.Println(c.CID)
	return nil
}

func openMemoStore(cfg config.Config) (*memo.Store, error) {
	if cfg.MemoDSN != "" {
		return memo.OpenPostgres(cfg.MemoDSN)
	}
	return memo.OpenSQLite(cfg.MemoSQLitePath)
}
