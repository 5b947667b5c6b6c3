// file: internal/models/normalize_test.go
// version: 1.0.0
// guid: 1f6a3c8e-9b2d-4d7f-8e0a-5c4b3a2d1e0f

package models

import "testing"

func TestFoldSearch(t *testing.T) {
	if got := FoldSearch("Episódio"); got != "episodio" {
		t.Errorf("expected accent folding, got %q", got)
	}
	if got := FoldSearch("  Ação e Aventura "); got != "acao e aventura" {
		t.Errorf("got %q", got)
	}
}

func TestSearchMatches(t *testing.T) {
	if !SearchMatches("Temporada 1 Episódio 3", "episodio") {
		t.Error("unaccented search should match accented name")
	}
	if !SearchMatches("anything", "") {
		t.Error("empty search matches everything")
	}
	if SearchMatches("Dragon Ball", "naruto") {
		t.Error("unrelated search should not match")
	}
}

func TestCommentReferenceCount(t *testing.T) {
	id := int64(1)
	c := Comment{SeriesID: &id}
	if c.ReferenceCount() != 1 {
		t.Errorf("expected exactly one reference, got %d", c.ReferenceCount())
	}
	c.EpisodeID = &id
	if c.ReferenceCount() != 2 {
		t.Errorf("expected two references, got %d", c.ReferenceCount())
	}
}
