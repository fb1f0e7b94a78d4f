package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/truthguard/truthguard/internal/model"
)

var (
	validateQuery  string
	validateOrg    string
	validateModel  string
	validateAsJSON bool
)

// validateCmd validates a single response from the command line
var validateCmd = &cobra.Command{
	Use:   "validate [response text]",
	Short: "Validate one AI response",
	Long: `Run the full validation pipeline over one response and print the
decision, confidence score, violations, and any corrected draft.

Examples:
  truthguard validate "The Eiffel Tower is 330 meters tall." --query "How tall is the Eiffel Tower?"
  truthguard validate --org acme "Full refund within 24 hours guaranteed."`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		validator, _, closeFn, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		req := model.Request{
			Query:          validateQuery,
			ResponseText:   args[0],
			OrganizationID: validateOrg,
			AIModel:        validateModel,
		}

		result, id, err := validator.Validate(cmd.Context(), req)
		if err != nil && result == nil {
			return err
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		if validateAsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				*model.ValidationResult
				InteractionID string `json:"interaction_id,omitempty"`
			}{result, id})
		}

		printResult(result, id)
		return nil
	},
}

func printResult(result *model.ValidationResult, id string) {
	fmt.Printf("Status:     %s\n", result.Status)
	fmt.Printf("Confidence: %.2f\n", result.ConfidenceScore)
	if id != "" {
		fmt.Printf("Audit ID:   %s\n", id)
	}
	fmt.Println()
	fmt.Println(result.Explanation)

	if result.CorrectedResponse != "" {
		fmt.Println()
		fmt.Println("Corrected response:")
		fmt.Println(result.CorrectedResponse)
	}
}

func init() {
	validateCmd.Flags().StringVarP(&validateQuery, "query", "q", "", "original user query for context")
	validateCmd.Flags().StringVar(&validateOrg, "org", "", "organization id for rule and policy scoping")
	validateCmd.Flags().StringVar(&validateModel, "model", "", "name of the model that produced the response")
	validateCmd.Flags().BoolVar(&validateAsJSON, "json", false, "print the full result as JSON")

	rootCmd.AddCommand(validateCmd)
}
