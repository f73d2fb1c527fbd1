// Command validator recursively validates a container's dependency chain
// and writes an HTML or CSV report (spec.md §4.5). --reportfile must end in
// .html or .csv; any other extension is a usage error (exit 2).
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dlr-sp/provtool-go/internal/config"
	"github.com/dlr-sp/provtool-go/internal/metrics"
	"github.com/dlr-sp/provtool-go/internal/provlog"
	"github.com/dlr-sp/provtool-go/internal/store"
	"github.com/dlr-sp/provtool-go/internal/store/wiring"
	"github.com/dlr-sp/provtool-go/internal/validator"
)

var (
	fileLocation string
	target       string
	reportFile   string
)

func main() {
	root := &cobra.Command{
		Use:   "validator",
		Short: "Recursively validate a container's dependency chain and write a report",
		RunE:  run,
	}
	root.Flags().StringVar(&fileLocation, "filelocation", ".", "root directory the file reader searches")
	root.Flags().StringVar(&target, "target", "", "cid of the container to validate")
	root.Flags().StringVar(&reportFile, "reportfile", "report.html", "report output path, must end in .html or .csv")
	root.MarkFlagRequired("target")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if !strings.HasSuffix(reportFile, ".html") && !strings.HasSuffix(reportFile, ".csv") {
		fmt.Fprintln(os.Stderr, "validator: --reportfile must end in .html or .csv")
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger, err := provlog.New("validator", provlog.Config{FilePath: provlog.ValidatorLog, Level: zap.WarnLevel})
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.MetricsAddr != "" {
		serveMetrics(cfg.MetricsAddr)
	}

	registry, err := wiring.BuildRegistry(cfg)
	if err != nil {
		logger.Error("building reader registry failed", zap.Error(err))
		os.Exit(1)
	}

	v := validator.New(registry, store.Options{Root: fileLocation})
	entries := v.Check(target)

	if strings.HasSuffix(reportFile, ".csv") {
		err = validator.WriteCSVReport(entries, reportFile)
	} else {
		err = validator.WriteHTMLReport(entries, reportFile)
	}
	if err != nil {
		logger.Error("writing report failed", zap.Error(err))
		os.Exit(1)
	}

	invalid := 0
	for _, e := range entries {
		if !e.Valid {
			invalid++
		}
	}
	logger.Info("validation complete", zap.Int("checked", len(entries)), zap.Int("invalid", invalid))
	if invalid > 0 {
		os.Exit(1)
	}
	return nil
}

// serveMetrics exposes the node-checked/invalid counters on addr in the
// background; it never blocks startup and its failure is non-fatal, since
// metrics are a debugging aid, not load-bearing for validation itself.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	go http.ListenAndServe(addr, mux)
}
