package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// renderMaxChars 渲染服务单次返回的正文字符上限
const renderMaxChars = 8000

// RenderClient 调用 browser-scraper 渲染服务，处理依赖 JS 的页面
type RenderClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRenderClient 构造渲染服务客户端，baseURL 形如 http://localhost:4000
func NewRenderClient(baseURL string) *RenderClient {
	return &RenderClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type renderRequest struct {
	URL      string `json:"url"`
	MaxChars int    `json:"maxChars"`
}

type renderResponse struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// ExtractText 让渲染服务加载 pageURL 并返回抽取出的正文
func (r *RenderClient) ExtractText(pageURL string) (string, error) {
	body, err := json.Marshal(renderRequest{URL: pageURL, MaxChars: renderMaxChars})
	if err != nil {
		return "", fmt.Errorf("encode render request: %w", err)
	}

	resp, err := r.httpClient.Post(r.baseURL+"/extract", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("call render service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("render service status %d", resp.StatusCode)
	}

	var out renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode render response: %w", err)
	}
	if !out.OK {
		return "", fmt.Errorf("render service: %s", out.Error)
	}
	return out.Text, nil
}
