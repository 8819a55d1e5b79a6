package processor

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"

	"github.com/LJTian/FinNewsHub/internal/collector"
)

// Processor 汇总各来源的抓取结果，统一排序去重
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

// Process 按发布时间降序排列并按链接去重。
// 先排序后去重，同链接保留的就是最新一条；
// 链接为空的条目不参与去重，原样保留
func (p *Processor) Process(articles []collector.Article) []collector.Article {
	sorted := make([]collector.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	out := make([]collector.Article, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for _, a := range sorted {
		if a.URL != "" {
			key := HashURL(a.URL)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, a)
	}
	return out
}

// HashURL 生成链接的稳定指纹，去重和入库唯一键共用
func HashURL(url string) string {
	h := sha1.New()
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}
