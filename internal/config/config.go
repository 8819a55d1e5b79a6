package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppPort string

	// PostgresDSN 为空时不入库，只落 JSON 文件
	PostgresDSN string
	// RedisAddr 为空时不启用列表缓存
	RedisAddr string

	CronSpec   string
	OutputPath string

	// 抓取行为
	FetchMinDelay  time.Duration
	FetchMaxDelay  time.Duration
	FetchContent   bool
	CollectSources []string

	// NewsAPI 拉取路径
	NewsAPIKey      string
	NewsAPIDaysBack int

	// chromedp 渲染服务地址，空表示不启用兜底
	RenderScraperURL string

	// 管理接口的 Basic Auth，留空表示不开启
	BasicAuthUser string
	BasicAuthPass string
}

func Load() *Config {
	cfg := &Config{
		AppPort:     getEnv("APP_PORT", "8080"),
		PostgresDSN: getEnv("POSTGRES_DSN", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),

		CronSpec:   getEnv("CRON_SPEC", "0 * * * *"),
		OutputPath: getEnv("OUTPUT_PATH", "data/raw_news.json"),

		FetchMinDelay:  time.Duration(getEnvInt("FETCH_MIN_DELAY_MS", 1000)) * time.Millisecond,
		FetchMaxDelay:  time.Duration(getEnvInt("FETCH_MAX_DELAY_MS", 3000)) * time.Millisecond,
		FetchContent:   getEnvBool("FETCH_CONTENT", false),
		CollectSources: splitList(getEnv("COLLECT_SOURCES", "")),

		NewsAPIKey:      getEnv("NEWSAPI_KEY", ""),
		NewsAPIDaysBack: getEnvInt("NEWSAPI_DAYS_BACK", 7),

		RenderScraperURL: getEnv("RENDER_SCRAPER_URL", ""),

		BasicAuthUser: getEnv("APP_BASIC_USER", ""),
		BasicAuthPass: getEnv("APP_BASIC_PASS", ""),
	}

	log.Printf("config loaded: port=%s cron=%s output=%s", cfg.AppPort, cfg.CronSpec, cfg.OutputPath)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("warn: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("warn: invalid %s=%q, using %v", key, v, def)
		return def
	}
	return b
}

// splitList 按逗号切分并丢弃空白项
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
