package rules

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/truthguard/truthguard/internal/model"
)

// Store provides the rules and policies applicable to one request.
// Implementations must be safe for concurrent use.
type Store interface {
	// ActiveRules returns active rules scoped to the organization plus
	// global rules
	ActiveRules(ctx context.Context, orgID string) ([]model.Rule, error)
	// ActivePolicies returns the organization's active policies
	ActivePolicies(ctx context.Context, orgID string) ([]model.CompanyPolicy, error)
	// Industry returns the organization's industry, or empty when unknown
	Industry(ctx context.Context, orgID string) (string, error)
}

// ruleFile is the on-disk YAML shape for a rules fixture
type ruleFile struct {
	Organizations []struct {
		ID       string `yaml:"id"`
		Industry string `yaml:"industry"`
	} `yaml:"organizations"`
	Rules    []model.Rule          `yaml:"rules"`
	Policies []model.CompanyPolicy `yaml:"policies"`
}

// FileStore serves rules and policies from a YAML file loaded once at
// startup. Suitable for single-tenant deployments and the CLI.
type FileStore struct {
	rules      []model.Rule
	policies   []model.CompanyPolicy
	industries map[string]string
}

// NewFileStore loads a YAML rules fixture
func NewFileStore(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return ParseFileStore(data)
}

// ParseFileStore builds a FileStore from YAML bytes
func ParseFileStore(data []byte) (*FileStore, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}

	industries := make(map[string]string, len(file.Organizations))
	for _, org := range file.Organizations {
		industries[org.ID] = org.Industry
	}

	return &FileStore{
		rules:      file.Rules,
		policies:   file.Policies,
		industries: industries,
	}, nil
}

// ActiveRules returns active rules in scope for the organization
func (s *FileStore) ActiveRules(_ context.Context, orgID string) ([]model.Rule, error) {
	var out []model.Rule
	for _, r := range s.rules {
		if !r.Active {
			continue
		}
		if r.OrganizationID != "" && r.OrganizationID != orgID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ActivePolicies returns the organization's active policies
func (s *FileStore) ActivePolicies(_ context.Context, orgID string) ([]model.CompanyPolicy, error) {
	var out []model.CompanyPolicy
	for _, p := range s.policies {
		if !p.Active || p.OrganizationID != orgID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Industry returns the organization's industry from the fixture
func (s *FileStore) Industry(_ context.Context, orgID string) (string, error) {
	return s.industries[orgID], nil
}

// StaticStore serves a fixed rule set. Used when no rules file is
// configured and in tests.
type StaticStore struct {
	Rules      []model.Rule
	Policies   []model.CompanyPolicy
	Industries map[string]string
}

// ActiveRules returns the active subset of the fixed rules
func (s *StaticStore) ActiveRules(_ context.Context, orgID string) ([]model.Rule, error) {
	var out []model.Rule
	for _, r := range s.Rules {
		if !r.Active {
			continue
		}
		if r.OrganizationID != "" && r.OrganizationID != orgID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ActivePolicies returns the active subset of the fixed policies
func (s *StaticStore) ActivePolicies(_ context.Context, orgID string) ([]model.CompanyPolicy, error) {
	var out []model.CompanyPolicy
	for _, p := range s.Policies {
		if !p.Active || p.OrganizationID != orgID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Industry looks up the organization's industry
func (s *StaticStore) Industry(_ context.Context, orgID string) (string, error) {
	return s.Industries[orgID], nil
}
