package collector

import (
	"testing"
	"time"
)

var testSpec = SourceSpec{
	ID:              "example",
	Name:            "Example News",
	URL:             "https://example.com/news/",
	ArticleSelector: "div.item",
	TitleSelector:   "h3",
	LinkSelector:    "a",
	SummarySelector: "p.summary",
	DateSelector:    "span.date",
}

// 缺标题的条目跳过，其余五条按文档顺序输出
func TestExtractArticlesSkipsMalformed(t *testing.T) {
	pageHTML := `
<html><body>
  <div class="item">
    <h3>Story one</h3>
    <a href="/story/1">read</a>
    <p class="summary">Summary one</p>
    <span class="date">2 hours ago</span>
  </div>
  <div class="item">
    <h3>Story two</h3>
    <a href="/story/2">read</a>
  </div>
  <div class="item">
    <a href="/story/broken">no title here</a>
  </div>
  <div class="item">
    <h3>Story three</h3>
    <a href="https://other.example.org/story/3">read</a>
  </div>
  <div class="item">
    <h3>Story four</h3>
    <a href="/story/4">read</a>
    <span class="date">Jan 5, 2023</span>
  </div>
  <div class="item">
    <h3>Story five</h3>
    <a href="/story/5">read</a>
  </div>
</body></html>`

	articles := ExtractArticles(pageHTML, testSpec, refNow)
	if len(articles) != 5 {
		t.Fatalf("expected 5 articles, got %d", len(articles))
	}
	wantTitles := []string{"Story one", "Story two", "Story three", "Story four", "Story five"}
	for i, want := range wantTitles {
		if articles[i].Title != want {
			t.Fatalf("unexpected order at %d: %q, want %q", i, articles[i].Title, want)
		}
	}

	first := articles[0]
	if first.Source.ID != "example" || first.Source.Name != "Example News" {
		t.Errorf("unexpected source: %+v", first.Source)
	}
	if first.URL != "https://example.com/story/1" {
		t.Errorf("relative link not resolved: %s", first.URL)
	}
	if first.Description != "Summary one" {
		t.Errorf("unexpected summary: %q", first.Description)
	}
	if want := refNow.Add(-2 * time.Hour); !first.PublishedAt.Equal(want) {
		t.Errorf("unexpected published time: %v, want %v", first.PublishedAt, want)
	}

	// 第二篇缺摘要缺时间，分别退回空串和参考时刻
	second := articles[1]
	if second.Description != "" {
		t.Errorf("missing summary should be empty, got %q", second.Description)
	}
	if !second.PublishedAt.Equal(refNow) {
		t.Errorf("missing date should fall back to now, got %v", second.PublishedAt)
	}

	// 绝对链接原样保留，带年份日期按日期解析
	if articles[2].URL != "https://other.example.org/story/3" {
		t.Errorf("absolute link should stay untouched: %s", articles[2].URL)
	}
	if want := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC); !articles[3].PublishedAt.Equal(want) {
		t.Errorf("absolute date not parsed: %v", articles[3].PublishedAt)
	}
}

// 缺链接的条目同样跳过，不影响相邻条目
func TestExtractArticlesSkipsMissingLink(t *testing.T) {
	pageHTML := `
<div class="item"><h3>Linkless</h3><p class="summary">text</p></div>
<div class="item"><h3>Linked</h3><a href="/story/ok">read</a></div>`

	articles := ExtractArticles(pageHTML, testSpec, refNow)
	if len(articles) != 1 || articles[0].Title != "Linked" {
		t.Fatalf("expected only the linked article, got %+v", articles)
	}
}

// javascript 伪链接解析后不是 http/https，按无效链接跳过
func TestExtractArticlesRejectsNonHTTPLink(t *testing.T) {
	pageHTML := `<div class="item"><h3>Bad link</h3><a href="javascript:void(0)">x</a></div>`
	if got := ExtractArticles(pageHTML, testSpec, refNow); len(got) != 0 {
		t.Fatalf("expected 0 articles, got %d", len(got))
	}
}

// 没配摘要选择器的源（如 finviz）摘要恒为空串
func TestExtractArticlesWithoutSummarySelector(t *testing.T) {
	spec := testSpec
	spec.SummarySelector = ""
	pageHTML := `<div class="item"><h3>Only title</h3><a href="/s/1">go</a><p class="summary">ignored</p></div>`

	articles := ExtractArticles(pageHTML, spec, refNow)
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Description != "" {
		t.Errorf("summary should be empty without a selector, got %q", articles[0].Description)
	}
}
