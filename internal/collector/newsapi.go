package collector

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	newsAPIEndpoint  = "https://newsapi.org/v2/everything"
	newsAPIQuery     = "finance OR stock OR market OR trading OR investment"
	newsAPIPageSize  = 100
	newsAPIMaxTotal  = 100
	newsAPIPageDelay = time.Second
)

// 未显式指定时默认拉取的财经媒体
var defaultNewsAPISources = []string{
	"bloomberg",
	"business-insider",
	"financial-times",
	"fortune",
	"reuters",
	"the-wall-street-journal",
}

// APIError NewsAPI 明确拒绝请求（status != ok），重试不会成功
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi: %s (%s)", e.Message, e.Code)
}

// Recoverable 区分可重试的传输错误与 API 业务错误。
// key 无效、配额用尽这类拒绝属于后者，调用方应直接放弃
func Recoverable(err error) bool {
	var apiErr *APIError
	return err != nil && !errors.As(err, &apiErr)
}

// NewsAPIClient 走 NewsAPI everything 接口拉取财经新闻
type NewsAPIClient struct {
	key        string
	baseURL    string
	httpClient *http.Client

	// Sleep 翻页间隔的注入点，测试里替换掉真实等待
	Sleep func(time.Duration)
}

// NewNewsAPIClient 构造客户端，key 为空视为配置错误
func NewNewsAPIClient(key string) (*NewsAPIClient, error) {
	if key == "" {
		return nil, errors.New("newsapi: api key is required")
	}
	return &NewsAPIClient{
		key:        key,
		baseURL:    newsAPIEndpoint,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}, nil
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// FetchEverything 按 [now-daysBack, now] 的时间窗拉取文章。
// sources 为空时用 defaultNewsAPISources。
// 翻页直到没有更多数据、达到 API 报告的总量或本地 100 条上限
func (c *NewsAPIClient) FetchEverything(daysBack int, sources []string, now time.Time) ([]Article, error) {
	if daysBack <= 0 {
		daysBack = 7
	}
	if len(sources) == 0 {
		sources = defaultNewsAPISources
	}
	from := now.Add(-time.Duration(daysBack) * 24 * time.Hour).Format("2006-01-02")
	to := now.Format("2006-01-02")

	var all []Article
	for page := 1; ; page++ {
		resp, err := c.fetchPage(from, to, sources, page)
		if err != nil {
			return nil, err
		}
		if len(resp.Articles) == 0 {
			break
		}
		for _, item := range resp.Articles {
			all = append(all, item.toArticle(now))
			if len(all) >= newsAPIMaxTotal {
				return all, nil
			}
		}
		if len(all) >= resp.TotalResults {
			break
		}
		c.sleep(newsAPIPageDelay)
	}
	return all, nil
}

func (c *NewsAPIClient) fetchPage(from, to string, sources []string, page int) (*newsAPIResponse, error) {
	params := url.Values{}
	params.Set("q", newsAPIQuery)
	params.Set("sources", strings.Join(sources, ","))
	params.Set("from", from)
	params.Set("to", to)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(newsAPIPageSize))
	params.Set("page", strconv.Itoa(page))

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build newsapi request: %w", err)
	}
	req.Header.Set("Authorization", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi page %d: %w", page, err)
	}
	defer resp.Body.Close()

	// NewsAPI 的错误响应同样是 JSON 体，先解码再看业务状态
	var out newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode newsapi page %d: %w", page, err)
	}
	if out.Status != "ok" {
		return nil, &APIError{Code: out.Code, Message: out.Message}
	}
	return &out, nil
}

// toArticle 把 API 条目映射成统一的文章结构
func (item newsAPIArticle) toArticle(now time.Time) Article {
	published, err := time.Parse(time.RFC3339, item.PublishedAt)
	if err != nil {
		published = now
	}
	a := Article{
		Source:      Source{ID: item.Source.ID, Name: item.Source.Name},
		Title:       item.Title,
		Description: item.Description,
		URL:         item.URL,
		PublishedAt: published,
	}
	if item.Content != "" {
		content := item.Content
		a.Content = &content
	}
	return a
}

func (c *NewsAPIClient) sleep(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}
