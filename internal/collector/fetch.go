package collector

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	fetchTimeout      = 15 * time.Second
	fetchMaxAttempts  = 3
	fetchMaxBodyBytes = 8 << 20 // 8MB，防止超大页面占满内存
)

// 常见桌面/移动浏览器 UA，轮换使用；部分站点会拦截非浏览器 UA
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 14_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (iPad; CPU OS 14_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Mobile/15E148 Safari/604.1",
}

// Client 负责对外发起页面请求：浏览器头、随机请求间隔、指数退避重试。
// 同一个 Client 可被多个 goroutine 并发使用
type Client struct {
	minDelay time.Duration
	maxDelay time.Duration

	// Sleep 等待函数，默认 time.Sleep；测试中注入空实现可跳过延迟
	Sleep func(time.Duration)
}

// NewClient 创建抓取客户端，minDelay/maxDelay 为每次请求前的随机等待区间
func NewClient(minDelay, maxDelay time.Duration) *Client {
	if minDelay < 0 {
		minDelay = 0
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Client{minDelay: minDelay, maxDelay: maxDelay}
}

// Get 抓取 pageURL 并返回响应正文。
// 每次尝试（含第一次）前随机等待 [minDelay,maxDelay]，
// 传输失败（连接错误、超时、非 2xx）时按 2^k + rand(0,1) 秒退避，
// 最多尝试 fetchMaxAttempts 次；全部失败返回错误，调用方按零篇文章处理
func (c *Client) Get(pageURL string) (string, error) {
	col := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.MaxBodySize(fetchMaxBodyBytes),
	)
	col.SetRequestTimeout(fetchTimeout)

	col.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", randomUserAgent())
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
		r.Headers.Set("Connection", "keep-alive")
		r.Headers.Set("Upgrade-Insecure-Requests", "1")
		r.Headers.Set("Cache-Control", "max-age=0")
	})

	var body []byte
	col.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	var lastErr error
	for attempt := 0; attempt < fetchMaxAttempts; attempt++ {
		c.sleep(c.requestDelay())

		body = nil
		err := col.Visit(pageURL)
		if err == nil && body != nil {
			return string(body), nil
		}
		if err == nil {
			err = fmt.Errorf("empty response")
		}
		lastErr = err
		log.Printf("fetch %s failed (attempt %d/%d): %v", pageURL, attempt+1, fetchMaxAttempts, err)

		if attempt < fetchMaxAttempts-1 {
			c.sleep(backoffDelay(attempt))
		}
	}
	return "", fmt.Errorf("fetch %s: %w", pageURL, lastErr)
}

// requestDelay 返回 [minDelay,maxDelay] 内的随机等待
func (c *Client) requestDelay() time.Duration {
	if c.maxDelay <= c.minDelay {
		return c.minDelay
	}
	return c.minDelay + time.Duration(rand.Int63n(int64(c.maxDelay-c.minDelay)))
}

// backoffDelay 第 attempt 次失败后的退避时长：2^attempt 秒加 0~1 秒抖动
func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt))*time.Second +
		time.Duration(rand.Float64()*float64(time.Second))
}

func (c *Client) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}
