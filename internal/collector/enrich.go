package collector

import (
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// 抽正文前先剔除的噪音节点
const noiseSelector = "script, style, nav, header, footer, aside"

// 常见新闻站正文容器，按优先级排列，命中第一个就停
var contentSelectors = []string{
	"article",
	".article-body",
	".article-content",
	".story-body",
	".story-content",
	".post-content",
	".entry-content",
	"main",
	"#article-body",
	"#content-body",
	".content-article",
	".article__body",
	`[itemprop="articleBody"]`,
	".news-content",
	".article-text",
}

// Enricher 抓取文章详情页并补全正文纯文本
type Enricher struct {
	client *Client
	render *RenderClient
}

// NewEnricher 构造 Enricher，render 为 nil 时不启用渲染服务兜底
func NewEnricher(client *Client, render *RenderClient) *Enricher {
	return &Enricher{client: client, render: render}
}

// Enrich 抓取 a.URL 对应的详情页并填充 Content。
// 任何一步失败都原样返回，Content 保持 nil，不影响整批流水线
func (e *Enricher) Enrich(a Article) Article {
	if a.URL == "" {
		return a
	}
	pageHTML, err := e.client.Get(a.URL)
	if err != nil {
		log.Printf("enrich %s failed: %v", a.URL, err)
		return a
	}
	text := ExtractContent(pageHTML)
	if text == "" {
		text = e.fallbackText(pageHTML, a.URL)
	}
	if text != "" {
		a.Content = &text
	}
	return a
}

// fallbackText 在选择器全部落空时再试两级兜底：
// 先用 readability 做通用正文识别，还不行再交给渲染服务跑一遍 JS
func (e *Enricher) fallbackText(pageHTML, pageURL string) string {
	if text := readableText(pageHTML, pageURL); text != "" {
		return text
	}
	if e.render == nil {
		return ""
	}
	text, err := e.render.ExtractText(pageURL)
	if err != nil {
		log.Printf("render %s failed: %v", pageURL, err)
		return ""
	}
	return joinLines(text)
}

// ExtractContent 从详情页 HTML 中抽取正文纯文本。
// 先剔除脚本样式等噪音，再按 contentSelectors 找正文容器；
// 一个容器都没命中时收集全文 <p> 文本兜底。
// 抽不到正文返回空串
func ExtractContent(pageHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return ""
	}
	doc.Find(noiseSelector).Remove()

	for _, selector := range contentSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		return joinLines(nodeText(sel.First()))
	}

	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := nodeText(p); text != "" {
			parts = append(parts, text)
		}
	})
	return joinLines(strings.Join(parts, "\n"))
}

// readableText 用 readability 解析整页，适配没有常规正文容器的站点
func readableText(pageHTML, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(pageHTML), parsed)
	if err != nil {
		return ""
	}
	return joinLines(article.TextContent)
}

// nodeText 逐文本节点抽取内容，每个非空白文本节点占一行
func nodeText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		walkText(n, &b)
	}
	return b.String()
}

func walkText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, b)
	}
}

// joinLines 裁掉每行首尾空白并丢弃空行
func joinLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
