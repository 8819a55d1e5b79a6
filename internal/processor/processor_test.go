package processor

import (
	"testing"
	"time"

	"github.com/LJTian/FinNewsHub/internal/collector"
)

func art(title, url string, published time.Time) collector.Article {
	return collector.Article{
		Source:      collector.Source{ID: "example", Name: "Example"},
		Title:       title,
		URL:         url,
		PublishedAt: published,
	}
}

func TestHashURLDeterministicAndDistinct(t *testing.T) {
	h1a := HashURL("https://example.com/a")
	h1b := HashURL("https://example.com/a")
	h2 := HashURL("https://example.com/b")

	if h1a != h1b {
		t.Fatalf("HashURL not deterministic: %q vs %q", h1a, h1b)
	}
	if h1a == h2 {
		t.Fatalf("HashURL should differ for different URLs: %q", h1a)
	}
	if len(h1a) != 40 {
		t.Fatalf("HashURL should be 40 hex chars, got %d", len(h1a))
	}
}

func TestProcessSortsByPublishedAtDesc(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []collector.Article{
		art("jan", "https://example.com/jan", base),
		art("mar", "https://example.com/mar", base.AddDate(0, 2, 0)),
		art("feb", "https://example.com/feb", base.AddDate(0, 1, 0)),
	}

	out := NewProcessor().Process(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(out))
	}
	if out[0].Title != "mar" || out[1].Title != "feb" || out[2].Title != "jan" {
		t.Fatalf("unexpected order: %s, %s, %s", out[0].Title, out[1].Title, out[2].Title)
	}

	// 输入列表不应被原地重排
	if in[0].Title != "jan" {
		t.Fatalf("input slice was mutated")
	}
}

func TestProcessDeduplicateByURL(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []collector.Article{
		art("old", "https://example.com/story", base),
		art("new", "https://example.com/story", base.Add(time.Hour)),
		art("no url 1", "", base),
		art("no url 2", "", base),
	}

	out := NewProcessor().Process(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 articles after dedupe, got %d", len(out))
	}

	// 先排序后去重，同链接保留最新一条
	if out[0].Title != "new" {
		t.Fatalf("expected newest duplicate to survive, got %s", out[0].Title)
	}

	// 空链接条目不参与去重，两条都在
	if out[1].Title != "no url 1" || out[2].Title != "no url 2" {
		t.Fatalf("articles without URL should be kept: %s, %s", out[1].Title, out[2].Title)
	}
}
