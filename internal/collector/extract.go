package collector

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ExtractArticles 按源配置从列表页 HTML 中抽取文章。
// 每个容器节点独立处理：缺标题或缺链接的条目直接跳过，
// 相对链接基于列表页地址补全，摘要和发布时间允许缺省。
// 返回顺序与页面中出现顺序一致
func ExtractArticles(pageHTML string, spec SourceSpec, now time.Time) []Article {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		log.Printf("parse %s page failed: %v", spec.ID, err)
		return nil
	}

	base, err := url.Parse(spec.URL)
	if err != nil {
		base = nil
	}

	var articles []Article
	doc.Find(spec.ArticleSelector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(spec.TitleSelector).First().Text())
		if title == "" {
			return
		}

		href, ok := sel.Find(spec.LinkSelector).First().Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		link := resolveLink(base, href)
		if link == "" {
			return
		}

		summary := ""
		if spec.SummarySelector != "" {
			summary = strings.TrimSpace(sel.Find(spec.SummarySelector).First().Text())
		}

		published := now
		if spec.DateSelector != "" {
			published = NormalizeDate(sel.Find(spec.DateSelector).First().Text(), now)
		}

		articles = append(articles, Article{
			Source:      Source{ID: spec.ID, Name: spec.Name},
			Title:       title,
			Description: summary,
			URL:         link,
			PublishedAt: published,
		})
	})
	return articles
}

// resolveLink 把 href 补全为绝对地址，只接受 http/https 结果
func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}
