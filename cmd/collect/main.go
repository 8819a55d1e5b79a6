package main

import (
	"log"

	"github.com/LJTian/FinNewsHub/internal/collector"
	"github.com/LJTian/FinNewsHub/internal/config"
	"github.com/LJTian/FinNewsHub/internal/pipeline"
	"github.com/LJTian/FinNewsHub/internal/storage"
)

// 跑完一轮采集后退出：适合 crontab 或手动触发。
// 来源选择、是否抓正文都走环境变量，见 internal/config
func main() {
	cfg := config.Load()

	var store *storage.Store
	if cfg.PostgresDSN != "" {
		s, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("init store failed: %v", err)
		}
		store = s
	}

	client := collector.NewClient(cfg.FetchMinDelay, cfg.FetchMaxDelay)

	var render *collector.RenderClient
	if cfg.RenderScraperURL != "" {
		render = collector.NewRenderClient(cfg.RenderScraperURL)
	}
	enricher := collector.NewEnricher(client, render)

	p := pipeline.New(collector.DefaultRegistry(), client, enricher, store, cfg.OutputPath)

	articles, err := p.Run(pipeline.Options{
		SourceIDs:    cfg.CollectSources,
		FetchContent: cfg.FetchContent,
		Persist:      true,
	})
	if err != nil {
		log.Fatalf("collect failed: %v", err)
	}
	log.Printf("collected %d articles", len(articles))
}
