package collector

import "time"

// Source 文章来源标识，落盘与 API 输出中以 {id,name} 形式出现
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article 归一化后的文章结构，抓取路径与 NewsAPI 路径共用同一形态
type Article struct {
	Source      Source `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	// PublishedAt 始终有值：解析不出发布时间时退回抓取时刻
	PublishedAt time.Time `json:"publishedAt"`
	// Content 在取不到正文时保持 nil，序列化为 null
	Content *string `json:"content"`
}
