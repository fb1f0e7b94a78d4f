package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/truthguard/truthguard/internal/consistency"
	"github.com/truthguard/truthguard/internal/model"
)

// Store persists interactions with their violations, verification results,
// and citations as one logical unit, and reconstructs them by interaction id.
// It also serves the consistency checker's history lookups.
type Store struct {
	db *sql.DB
}

// NewStore opens (and migrates) the audit database at path.
// Use ":memory:" for an ephemeral store.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}
	// modernc/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent validations
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	query TEXT NOT NULL,
	query_fingerprint TEXT NOT NULL,
	response_text TEXT NOT NULL,
	validated_text TEXT,
	status TEXT NOT NULL,
	confidence_score REAL NOT NULL,
	ai_model TEXT,
	session_id TEXT,
	explanation TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_history
	ON interactions(organization_id, query_fingerprint, created_at);

CREATE TABLE IF NOT EXISTS violations (
	interaction_id TEXT NOT NULL REFERENCES interactions(id),
	type TEXT NOT NULL,
	severity TEXT NOT NULL,
	description TEXT NOT NULL,
	rule_id TEXT,
	policy_id TEXT,
	claim_text TEXT
);
CREATE INDEX IF NOT EXISTS idx_violations_interaction ON violations(interaction_id);

CREATE TABLE IF NOT EXISTS verification_results (
	interaction_id TEXT NOT NULL REFERENCES interactions(id),
	claim_text TEXT NOT NULL,
	status TEXT NOT NULL,
	confidence REAL NOT NULL,
	source TEXT,
	details TEXT,
	url TEXT
);
CREATE INDEX IF NOT EXISTS idx_verification_interaction ON verification_results(interaction_id);

CREATE TABLE IF NOT EXISTS citations (
	interaction_id TEXT NOT NULL REFERENCES interactions(id),
	url TEXT NOT NULL,
	is_valid INTEGER NOT NULL,
	content_match INTEGER NOT NULL,
	status_code INTEGER,
	error TEXT
);
CREATE INDEX IF NOT EXISTS idx_citations_interaction ON citations(interaction_id);

CREATE TABLE IF NOT EXISTS citation_refs (
	interaction_id TEXT NOT NULL REFERENCES interactions(id),
	kind TEXT NOT NULL,
	source TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_citation_refs_interaction ON citation_refs(interaction_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrating audit schema: %w", err)
	}
	return nil
}

// SaveInteraction persists a completed validation as one transaction and
// returns the generated interaction id
func (s *Store) SaveInteraction(ctx context.Context, req model.Request, result *model.ValidationResult) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning audit transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := result.ValidatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO interactions
			(id, organization_id, query, query_fingerprint, response_text,
			 validated_text, status, confidence_score, ai_model, session_id,
			 explanation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.OrganizationID, req.Query, consistency.Fingerprint(req.Query),
		req.ResponseText, result.CorrectedResponse, string(result.Status),
		result.ConfidenceScore, req.AIModel, req.SessionID,
		result.Explanation, ts)
	if err != nil {
		return "", fmt.Errorf("inserting interaction: %w", err)
	}

	for _, v := range result.Violations {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO violations
				(interaction_id, type, severity, description, rule_id, policy_id, claim_text)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, string(v.Type), string(v.Severity), v.Description, v.RuleID, v.PolicyID, v.ClaimText)
		if err != nil {
			return "", fmt.Errorf("inserting violation: %w", err)
		}
	}

	for _, r := range result.VerificationResults {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO verification_results
				(interaction_id, claim_text, status, confidence, source, details, url)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, r.ClaimText, string(r.Status), r.Confidence, r.Source, r.Details, r.URL)
		if err != nil {
			return "", fmt.Errorf("inserting verification result: %w", err)
		}
	}

	for _, c := range result.Citations {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO citations
				(interaction_id, url, is_valid, content_match, status_code, error)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, c.URL, boolInt(c.IsValid), boolInt(c.ContentMatch), c.StatusCode, c.Error)
		if err != nil {
			return "", fmt.Errorf("inserting citation: %w", err)
		}
	}

	for _, ref := range result.CitationRefs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO citation_refs (interaction_id, kind, source)
			VALUES (?, ?, ?)`,
			id, ref.Kind, ref.Source)
		if err != nil {
			return "", fmt.Errorf("inserting citation ref: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing audit transaction: %w", err)
	}
	return id, nil
}

// Trail reconstructs the full persisted unit for one interaction id
func (s *Store) Trail(ctx context.Context, id string) (*model.AuditTrail, error) {
	var trail model.AuditTrail
	var validated, aiModel, sessionID, explanation sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, query, response_text, validated_text,
		       status, confidence_score, ai_model, session_id, explanation, created_at
		FROM interactions WHERE id = ?`, id).Scan(
		&trail.Interaction.ID, &trail.Interaction.OrganizationID,
		&trail.Interaction.Query, &trail.Interaction.ResponseText,
		&validated, (*string)(&trail.Interaction.Status),
		&trail.Interaction.ConfidenceScore, &aiModel, &sessionID,
		&explanation, &trail.Interaction.Timestamp)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("interaction %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading interaction: %w", err)
	}
	trail.Interaction.ValidatedText = validated.String
	trail.Interaction.AIModel = aiModel.String
	trail.Interaction.SessionID = sessionID.String
	trail.Interaction.Explanation = explanation.String

	if trail.Violations, err = s.violations(ctx, id); err != nil {
		return nil, err
	}
	if trail.VerificationResults, err = s.verificationResults(ctx, id); err != nil {
		return nil, err
	}
	if trail.Citations, err = s.citations(ctx, id); err != nil {
		return nil, err
	}
	if trail.CitationRefs, err = s.citationRefs(ctx, id); err != nil {
		return nil, err
	}
	return &trail, nil
}

func (s *Store) violations(ctx context.Context, id string) ([]model.Violation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, severity, description, rule_id, policy_id, claim_text
		FROM violations WHERE interaction_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("loading violations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Violation
	for rows.Next() {
		var v model.Violation
		var ruleID, policyID, claimText sql.NullString
		if err := rows.Scan((*string)(&v.Type), (*string)(&v.Severity),
			&v.Description, &ruleID, &policyID, &claimText); err != nil {
			return nil, fmt.Errorf("scanning violation: %w", err)
		}
		v.RuleID = ruleID.String
		v.PolicyID = policyID.String
		v.ClaimText = claimText.String
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) verificationResults(ctx context.Context, id string) ([]model.VerificationResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT claim_text, status, confidence, source, details, url
		FROM verification_results WHERE interaction_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("loading verification results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.VerificationResult
	for rows.Next() {
		var r model.VerificationResult
		var source, details, u sql.NullString
		if err := rows.Scan(&r.ClaimText, (*string)(&r.Status), &r.Confidence,
			&source, &details, &u); err != nil {
			return nil, fmt.Errorf("scanning verification result: %w", err)
		}
		r.Source = source.String
		r.Details = details.String
		r.URL = u.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) citations(ctx context.Context, id string) ([]model.Citation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, is_valid, content_match, status_code, error
		FROM citations WHERE interaction_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("loading citations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Citation
	for rows.Next() {
		var c model.Citation
		var valid, match int
		var code sql.NullInt64
		var errText sql.NullString
		if err := rows.Scan(&c.URL, &valid, &match, &code, &errText); err != nil {
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		c.IsValid = valid != 0
		c.ContentMatch = match != 0
		c.StatusCode = int(code.Int64)
		c.Error = errText.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) citationRefs(ctx context.Context, id string) ([]model.CitationRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, source FROM citation_refs WHERE interaction_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("loading citation refs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.CitationRef
	for rows.Next() {
		var ref model.CitationRef
		if err := rows.Scan(&ref.Kind, &ref.Source); err != nil {
			return nil, fmt.Errorf("scanning citation ref: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// RecentResponses returns prior validated (or original) response texts for
// similar queries, most recent first. Implements consistency.HistoryStore.
func (s *Store) RecentResponses(ctx context.Context, orgID, fingerprint string, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(validated_text, ''), response_text)
		FROM interactions
		WHERE organization_id = ? AND query_fingerprint = ?
		ORDER BY created_at DESC LIMIT ?`, orgID, fingerprint, n)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		out = append(out, text)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ consistency.HistoryStore = (*Store)(nil)
