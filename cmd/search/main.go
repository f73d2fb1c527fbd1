// Command search looks up every container whose entity label matches
// --entityname under --searchdir, across every registered reader (spec.md
// §4.3).
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dlr-sp/provtool-go/internal/provlog"
	"github.com/dlr-sp/provtool-go/internal/store"
)

var (
	searchDir  string
	entityName string
)

func main() {
	root := &cobra.Command{
		Use:   "search",
		Short: "Search for containers by entity label",
		RunE:  run,
	}
	root.Flags().StringVar(&searchDir, "searchdir", ".", "root directory to search")
	root.Flags().StringVar(&entityName, "entityname", "", "entity label to search for")
	root.MarkFlagRequired("entityname")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := provlog.New("search", provlog.Config{FilePath: provlog.SearchLog})
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry := store.NewRegistry()
	registry.RegisterReader(store.NewFileReader())

	results := registry.Search(store.Options{Root: searchDir}, entityName)
	logger.Info("search complete", zap.String("entityname", entityName), zap.Int("matches", len(results)))
	fmt.Println(strings.Join(results, "\n"))
	return nil
}
