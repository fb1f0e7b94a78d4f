package cli

import (
	"fmt"
	"os"

	"github.com/truthguard/truthguard/internal/audit"
	"github.com/truthguard/truthguard/internal/model"
	"github.com/truthguard/truthguard/internal/pipeline"
	"github.com/truthguard/truthguard/internal/rules"
)

// buildPipeline constructs the validator plus its stores from configuration.
// The returned close function releases the audit database.
func buildPipeline(cfg *model.Config) (*pipeline.Validator, *audit.Store, func(), error) {
	var ruleStore rules.Store
	if cfg.Rules.File != "" {
		fs, err := rules.NewFileStore(cfg.Rules.File)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("loading rules: %w", err)
		}
		ruleStore = fs
	}

	var auditor *audit.Store
	if cfg.Store.Path != "" {
		a, err := audit.NewStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening audit store: %w", err)
		}
		auditor = a
	}

	closeFn := func() {
		if auditor != nil {
			if err := auditor.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: closing audit store: %v\n", err)
			}
		}
	}

	return pipeline.New(cfg, ruleStore, auditor), auditor, closeFn, nil
}
