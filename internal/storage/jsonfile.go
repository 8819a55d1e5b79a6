package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LJTian/FinNewsHub/internal/collector"
)

// SaveArticles 把整批文章覆盖写入 path 指向的 JSON 文件。
// 输出带缩进且不转义 HTML，便于人工翻看；写失败向上抛错，
// 这是一轮采集唯一不能丢的产出
func SaveArticles(path string, articles []collector.Article) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if articles == nil {
		articles = []collector.Article{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
