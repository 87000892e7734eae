package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/services"

	"github.com/joho/godotenv"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	exitError    = 1
	exitFailures = 2
)

var (
	concurrency int
	allAuthors  bool
	notifyEmail []string
)

var rootCmd = &cobra.Command{
	Use:   "orcid-sync [orcid-id...]",
	Short: "Import researchers' works from ORCID",
	Long: `Synchronize publications from the ORCID public registry.

Pass one or more ORCID iDs, or --all-authors to sync every active author
that has an ORCID iD. The exit code is 2 when any researcher or work failed.`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 2, "number of researchers synced in parallel")
	rootCmd.Flags().BoolVar(&allAuthors, "all-authors", false, "sync every author with an ORCID iD")
	rootCmd.Flags().StringSliceVar(&notifyEmail, "notify-email", nil, "address to mail each sync summary to")
}

type outcome struct {
	orcidID string
	result  *services.SyncResult
	err     error
}

func run(cmd *cobra.Command, args []string) error {
	if concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}

	ids := args
	if allAuthors {
		var stored []string
		err := config.DB.Model(&models.Author{}).
			Where("is_active = ? AND orcid_id IS NOT NULL AND orcid_id <> ''", true).
			Pluck("orcid_id", &stored).Error
		if err != nil {
			return fmt.Errorf("list authors: %w", err)
		}
		ids = append(ids, stored...)
	}
	if len(ids) == 0 {
		return errors.New("no ORCID iDs given (pass ids or --all-authors)")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc := services.NewOrcidSyncService(config.DB, services.NewRegistryClient())
	notifier := services.NewNotifier()

	var (
		mu       sync.Mutex
		outcomes []outcome
	)
	p := pool.New().WithMaxGoroutines(concurrency)
	for _, id := range dedupe(ids) {
		id := id
		p.Go(func() {
			res, err := svc.Sync(ctx, id, "cli")
			if res != nil && len(notifyEmail) > 0 {
				if mailErr := notifier.SyncSummary(notifyEmail, id, res); mailErr != nil {
					config.Log.Warn("sync summary mail failed", zap.String("orcid_id", id), zap.Error(mailErr))
				}
			}
			mu.Lock()
			outcomes = append(outcomes, outcome{orcidID: id, result: res, err: err})
			mu.Unlock()
		})
	}
	p.Wait()

	return summarize(os.Stdout, os.Stderr, outcomes)
}

// errSyncFailures marks a run that finished but had failed researchers or works.
var errSyncFailures = errors.New("some syncs failed")

// summarize prints one line per researcher.
func summarize(out, errOut io.Writer, outcomes []outcome) error {
	failed := false
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			failed = true
			fmt.Fprintf(errOut, "%s: error: %v\n", o.orcidID, o.err)
		default:
			fmt.Fprintf(out, "%s: %s\n", o.orcidID, o.result.Message)
			if o.result.Stats != nil && o.result.Stats.Failed > 0 {
				failed = true
			}
		}
	}
	if failed {
		return errSyncFailures
	}
	return nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errSyncFailures):
		return exitFailures
	default:
		return exitError
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logFile, logger := config.InitLogging(cfg.Log.Level)
	config.InitDB()

	err = rootCmd.Execute()
	if err != nil && !errors.Is(err, errSyncFailures) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	code := exitCode(err)
	_ = logger.Sync()
	if logFile != nil {
		logFile.Close()
	}
	if code != 0 {
		os.Exit(code)
	}
}
