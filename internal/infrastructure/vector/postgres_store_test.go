package vector

import (
	"context"
	"math"
	"strings"
	"testing"
)

func TestFlattenDocumentSortedLeaves(t *testing.T) {
	t.Parallel()

	doc := flattenDocument(map[string]any{
		"scraped_data": map[string]any{
			"meta_tags": map[string]any{"title": "Home"},
			"content":   map[string]any{"word_count": 250},
		},
		"url": "https://example.com",
	})

	lines := strings.Split(doc, "\n")
	want := []string{
		"scraped_data.content.word_count: 250",
		"scraped_data.meta_tags.title: Home",
		"url: https://example.com",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), doc)
	}
	for i, line := range want {
		if lines[i] != line {
			t.Fatalf("line %d: expected %q, got %q", i, line, lines[i])
		}
	}
}

func TestFlattenDocumentEmpty(t *testing.T) {
	t.Parallel()

	if doc := flattenDocument(nil); doc != "" {
		t.Fatalf("expected empty document, got %q", doc)
	}
}

func TestTermVectorNormalized(t *testing.T) {
	t.Parallel()

	terms, weights := termVector("link link authority on")
	if len(terms) != 2 || len(weights) != 2 {
		t.Fatalf("expected 2 terms, got %v / %v", terms, weights)
	}
	// sorted alphabetically: authority before link; "on" dropped (too short)
	if terms[0] != "authority" || terms[1] != "link" {
		t.Fatalf("unexpected terms: %v", terms)
	}
	if math.Abs(weights[0]-1.0/3) > 1e-9 || math.Abs(weights[1]-2.0/3) > 1e-9 {
		t.Fatalf("unexpected weights: %v", weights)
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("weights must sum to 1, got %f", sum)
	}
}

func TestTermVectorEmptyDocument(t *testing.T) {
	t.Parallel()

	terms, weights := termVector("a b c")
	if terms != nil || weights != nil {
		t.Fatalf("short-only document must vectorize to nil, got %v / %v", terms, weights)
	}
}

func TestCosine(t *testing.T) {
	t.Parallel()

	a := map[string]float64{"link": 0.5, "authority": 0.5}
	if got := Cosine(a, a); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical vectors must score 1, got %f", got)
	}

	disjoint := map[string]float64{"content": 1}
	if got := Cosine(a, disjoint); got != 0 {
		t.Fatalf("disjoint vectors must score 0, got %f", got)
	}

	if got := Cosine(nil, a); got != 0 {
		t.Fatalf("empty vector must score 0, got %f", got)
	}

	partial := map[string]float64{"link": 1}
	got := Cosine(a, partial)
	if got <= 0 || got >= 1 {
		t.Fatalf("partial overlap must score in (0,1), got %f", got)
	}
}

func TestNilDBDegradesQuietly(t *testing.T) {
	t.Parallel()

	store := NewPostgresStore(nil)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema with nil db: %v", err)
	}
	if err := store.AddEmbeddings(context.Background(), map[string]any{"k": "v"}, "technical"); err != nil {
		t.Fatalf("AddEmbeddings with nil db: %v", err)
	}
	cases, err := store.FindSimilar(context.Background(), map[string]any{"k": "v"}, 3)
	if err != nil || cases != nil {
		t.Fatalf("FindSimilar with nil db: %v / %v", cases, err)
	}
}
