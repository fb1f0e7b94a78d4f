package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/truthguard/truthguard/internal/worker"
)

var batchConcurrency int

// batchCmd validates many responses from a JSONL file
var batchCmd = &cobra.Command{
	Use:   "batch <requests.jsonl>",
	Short: "Validate a batch of responses from a JSONL file",
	Long: `Validate many responses concurrently. The input file holds one JSON
request per line:

  {"query": "...", "response_text": "...", "organization_id": "acme"}

Blank lines and lines starting with # are skipped. Results are written to
stdout as JSONL in completion order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		requests, err := worker.ReadRequestsFile(args[0])
		if err != nil {
			return err
		}
		if len(requests) == 0 {
			return fmt.Errorf("no requests found in %s", args[0])
		}

		validator, _, closeFn, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		processor := worker.NewBatchProcessor(validator, batchConcurrency)
		outcomes := processor.Process(cmd.Context(), requests)

		enc := json.NewEncoder(os.Stdout)
		failures := 0
		for _, outcome := range outcomes {
			if outcome.Error != nil && outcome.Result == nil {
				failures++
				fmt.Fprintf(os.Stderr, "Error validating %q: %v\n", outcome.Request.Query, outcome.Error)
				continue
			}
			line := struct {
				Query         string  `json:"query"`
				Status        string  `json:"status"`
				Confidence    float64 `json:"confidence"`
				Violations    int     `json:"violations"`
				InteractionID string  `json:"interaction_id,omitempty"`
			}{
				Query:         outcome.Request.Query,
				Status:        string(outcome.Result.Status),
				Confidence:    outcome.Result.ConfidenceScore,
				Violations:    len(outcome.Result.Violations),
				InteractionID: outcome.InteractionID,
			}
			if err := enc.Encode(line); err != nil {
				return err
			}
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "Validated %d request(s), %d failure(s)\n", len(outcomes), failures)
		}
		if failures == len(outcomes) {
			return fmt.Errorf("all %d validations failed", failures)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 4, "number of concurrent validations")

	rootCmd.AddCommand(batchCmd)
}
