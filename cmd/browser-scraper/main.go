package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	navTimeout      = 20 * time.Second
	settleDelay     = 500 * time.Millisecond
	defaultMaxChars = 2000
	ceilingMaxChars = 8000
)

type extractRequest struct {
	URL      string `json:"url"`
	MaxChars int    `json:"maxChars"`
}

type extractResponse struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// renderService 持有整个进程共享的 headless 浏览器上下文
type renderService struct {
	browserCtx context.Context
}

// 渲染兜底服务：财经站点里重 JS 的文章页（Yahoo、Investing 等）
// 静态抓取拿不到正文，这里用 headless Chrome 渲染后再抽取
func main() {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// 预热浏览器，避免首个请求耗时过长
	if err := chromedp.Run(browserCtx); err != nil {
		log.Printf("warn: warmup chromedp failed: %v", err)
	}

	svc := &renderService{browserCtx: browserCtx}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/extract", svc.handleExtract)

	addr := ":" + getEnv("PORT", "4000")
	log.Printf("browser-scraper listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("http server error: %v", err)
	}
}

func (s *renderService) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, extractResponse{OK: false, Error: "invalid json"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, extractResponse{OK: false, Error: "url is required"})
		return
	}
	if req.MaxChars <= 0 || req.MaxChars > ceilingMaxChars {
		req.MaxChars = defaultMaxChars
	}

	text, err := s.renderText(req.URL)
	if err != nil {
		log.Printf("extract error: %v (url=%s)", err, req.URL)
		writeJSON(w, http.StatusOK, extractResponse{OK: false, Error: err.Error()})
		return
	}

	text = collapseBlankLines(text)
	if text == "" {
		writeJSON(w, http.StatusOK, extractResponse{OK: false, Error: "empty content"})
		return
	}
	writeJSON(w, http.StatusOK, extractResponse{OK: true, Text: truncateRunes(text, req.MaxChars)})
}

// renderText 在共享浏览器里加载页面并执行抽取脚本。
// 文章页普遍在 DOM ready 之后才完成水合，等一小段再取文本
func (s *renderService) renderText(pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(s.browserCtx, navTimeout)
	defer cancel()

	var text string
	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.Evaluate(articleTextJS, &text),
	)
	return text, err
}

// truncateRunes 按 rune 截断，避免多字节字符被截成半个
func truncateRunes(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit]) + "…"
}

// collapseBlankLines 去掉行尾空白并把连续空行压成一个
func collapseBlankLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	blank := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			blank++
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
			if blank > 0 {
				b.WriteByte('\n')
			}
		}
		blank = 0
		b.WriteString(line)
	}
	return strings.TrimSpace(b.String())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// articleTextJS 在渲染完成的页面里抽取新闻正文：
// 优先找常见财经站的正文容器，落空时收集全页较长段落
const articleTextJS = `(function () {
  var containers = [
    "article",
    "div.caas-body",
    "div.article-body",
    "div.article-content",
    "div.story-body",
    "div.post-content",
    "[itemprop='articleBody']",
    "main"
  ];

  function textOf(el) {
    return el && el.innerText ? el.innerText.trim() : "";
  }

  for (var i = 0; i < containers.length; i++) {
    var body = textOf(document.querySelector(containers[i]));
    if (body.length > 200) {
      return body;
    }
  }

  var pieces = [];
  var paras = document.querySelectorAll("p");
  for (var j = 0; j < paras.length; j++) {
    var t = textOf(paras[j]);
    if (t.length >= 40) {
      pieces.push(t);
    }
    if (pieces.join("\n\n").length > 4000) {
      break;
    }
  }
  return pieces.join("\n\n");
})();`
