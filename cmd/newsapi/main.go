package main

import (
	"log"

	"github.com/LJTian/FinNewsHub/internal/collector"
	"github.com/LJTian/FinNewsHub/internal/config"
	"github.com/LJTian/FinNewsHub/internal/pipeline"
	"github.com/LJTian/FinNewsHub/internal/storage"
)

// 从 NewsAPI 拉取财经新闻后落盘退出，产出与抓取路径同一形态。
// NEWSAPI_KEY 必须配置，缺了直接退出
func main() {
	cfg := config.Load()

	apiClient, err := collector.NewNewsAPIClient(cfg.NewsAPIKey)
	if err != nil {
		log.Fatalf("newsapi not configured: %v", err)
	}

	var store *storage.Store
	if cfg.PostgresDSN != "" {
		s, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("init store failed: %v", err)
		}
		store = s
	}

	client := collector.NewClient(cfg.FetchMinDelay, cfg.FetchMaxDelay)
	p := pipeline.New(collector.DefaultRegistry(), client, nil, store, cfg.OutputPath)

	articles, err := p.RunAPI(apiClient, cfg.NewsAPIDaysBack, nil, true)
	if err != nil {
		if collector.Recoverable(err) {
			log.Fatalf("newsapi fetch failed, retry later: %v", err)
		}
		log.Fatalf("newsapi rejected the request: %v", err)
	}
	log.Printf("collected %d articles via newsapi", len(articles))
}
