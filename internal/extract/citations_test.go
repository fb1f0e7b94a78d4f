package extract

import (
	"testing"
)

func TestExtractURLs(t *testing.T) {
	text := "See https://example.org/a, then https://example.org/b. " +
		"Also https://example.org/a again."

	urls := ExtractURLs(text)
	if len(urls) != 2 {
		t.Fatalf("expected 2 deduplicated URLs, got %d: %v", len(urls), urls)
	}
	if urls[0] != "https://example.org/a" || urls[1] != "https://example.org/b" {
		t.Errorf("unexpected URLs (trailing punctuation must be stripped): %v", urls)
	}
}

func TestExtractURLs_None(t *testing.T) {
	if urls := ExtractURLs("no links in this sentence"); len(urls) != 0 {
		t.Errorf("expected no URLs, got %v", urls)
	}
}

func TestExtractCitationRefs(t *testing.T) {
	text := "According to the World Health Organization, handwashing reduces infections. " +
		"Source: internal knowledge base\n" +
		"This is required under GDPR Article 17 2016-679."

	refs := ExtractCitationRefs(text)

	kinds := make(map[string]string)
	for _, ref := range refs {
		kinds[ref.Kind] = ref.Source
	}

	if src, ok := kinds["according_to"]; !ok || src != "the World Health Organization" {
		t.Errorf("according_to ref = %q, ok=%v", src, ok)
	}
	if src, ok := kinds["source"]; !ok || src != "internal knowledge base" {
		t.Errorf("source ref = %q, ok=%v", src, ok)
	}
	if _, ok := kinds["regulation"]; !ok {
		t.Errorf("expected a regulation ref, got %+v", refs)
	}
}

func TestExtractCitationRefs_None(t *testing.T) {
	if refs := ExtractCitationRefs("Plain statement with no attribution."); len(refs) != 0 {
		t.Errorf("expected no refs, got %+v", refs)
	}
}
