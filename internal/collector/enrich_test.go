package collector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// 命中正文容器时逐段抽取，噪音节点不掺进来
func TestExtractContentPrefersContainer(t *testing.T) {
	pageHTML := `
<html><body>
  <script>var tracker = 1;</script>
  <nav>Site navigation</nav>
  <article>
    <p>Paragraph one.</p>
    <p>Paragraph two.</p>
  </article>
  <footer>Copyright</footer>
</body></html>`

	got := ExtractContent(pageHTML)
	want := "Paragraph one.\nParagraph two."
	if got != want {
		t.Fatalf("unexpected content: %q, want %q", got, want)
	}
}

// 没有任何正文容器时按文档顺序收集全部段落
func TestExtractContentParagraphFallback(t *testing.T) {
	pageHTML := `<html><body><div><p>First.</p><div><p>Second.</p></div></div></body></html>`
	got := ExtractContent(pageHTML)
	want := "First.\nSecond."
	if got != want {
		t.Fatalf("unexpected fallback content: %q, want %q", got, want)
	}
}

// 命中的容器是空的就认为没有正文，不再退回段落兜底
func TestExtractContentEmptyContainer(t *testing.T) {
	pageHTML := `<html><body><article></article><p>Stray text outside.</p></body></html>`
	if got := ExtractContent(pageHTML); got != "" {
		t.Fatalf("expected empty content, got %q", got)
	}
}

func TestEnrichFillsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><article><p>Full body text.</p></article></body></html>`))
	}))
	defer srv.Close()

	client := NewClient(0, 0)
	client.Sleep = func(time.Duration) {}
	e := NewEnricher(client, nil)

	got := e.Enrich(Article{Title: "t", URL: srv.URL, PublishedAt: refNow})
	if got.Content == nil || *got.Content != "Full body text." {
		t.Fatalf("content not filled: %+v", got.Content)
	}

	// 页面内容不变时重复补全的结果一致
	again := e.Enrich(got)
	if again.Content == nil || *again.Content != *got.Content {
		t.Fatalf("enrich not stable for an unchanged page: %+v", again.Content)
	}
}

// 详情页拉不下来时原样返回，不影响整批流水线
func TestEnrichKeepsArticleOnFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(0, 0)
	client.Sleep = func(time.Duration) {}
	e := NewEnricher(client, nil)

	got := e.Enrich(Article{Title: "t", URL: srv.URL, PublishedAt: refNow})
	if got.Content != nil {
		t.Fatalf("content should stay nil on fetch failure, got %q", *got.Content)
	}
	if got.Title != "t" {
		t.Fatalf("other fields should stay untouched")
	}
}

func TestEnrichSkipsEmptyURL(t *testing.T) {
	e := NewEnricher(NewClient(0, 0), nil)
	if got := e.Enrich(Article{Title: "t", PublishedAt: refNow}); got.Content != nil {
		t.Fatalf("empty URL should not trigger a fetch, got %q", *got.Content)
	}
}

// 选择器和通用识别都落空时走渲染服务兜底
func TestEnrichRenderFallback(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="app"></div></body></html>`))
	}))
	defer page.Close()

	render := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/extract" {
			t.Errorf("unexpected render request: %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			URL string `json:"url"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.URL == "" {
			t.Errorf("render request missing url")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"text":"Rendered text."}`))
	}))
	defer render.Close()

	client := NewClient(0, 0)
	client.Sleep = func(time.Duration) {}
	e := NewEnricher(client, NewRenderClient(render.URL))

	got := e.Enrich(Article{Title: "t", URL: page.URL, PublishedAt: refNow})
	if got.Content == nil || *got.Content != "Rendered text." {
		t.Fatalf("render fallback not applied: %+v", got.Content)
	}
}
