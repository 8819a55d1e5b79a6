package main

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/LJTian/FinNewsHub/internal/api"
	"github.com/LJTian/FinNewsHub/internal/collector"
	"github.com/LJTian/FinNewsHub/internal/config"
	"github.com/LJTian/FinNewsHub/internal/pipeline"
	"github.com/LJTian/FinNewsHub/internal/scheduler"
	"github.com/LJTian/FinNewsHub/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// 查询接口离不开数据库，这里必须配置 DSN
	if cfg.PostgresDSN == "" {
		log.Fatalf("POSTGRES_DSN is required for the api server")
	}
	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	registry := collector.DefaultRegistry()
	client := collector.NewClient(cfg.FetchMinDelay, cfg.FetchMaxDelay)

	var render *collector.RenderClient
	if cfg.RenderScraperURL != "" {
		render = collector.NewRenderClient(cfg.RenderScraperURL)
	}
	enricher := collector.NewEnricher(client, render)

	pipe := pipeline.New(registry, client, enricher, store, cfg.OutputPath)

	s, err := scheduler.New(cfg.CronSpec, pipe, pipeline.Options{
		SourceIDs:    cfg.CollectSources,
		FetchContent: cfg.FetchContent,
		Persist:      true,
	})
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	// NewsAPI 拉取走独立的低频周期，未配置 key 时跳过
	if cfg.NewsAPIKey != "" {
		apiClient, err := collector.NewNewsAPIClient(cfg.NewsAPIKey)
		if err != nil {
			log.Fatalf("init newsapi client failed: %v", err)
		}
		if _, err := s.Cron().AddFunc("30 */6 * * *", func() {
			if _, err := pipe.RunAPI(apiClient, cfg.NewsAPIDaysBack, nil, true); err != nil {
				log.Printf("newsapi job failed: %v", err)
			}
		}); err != nil {
			log.Printf("warn: add newsapi cron failed: %v", err)
		}
	}

	// API
	r := gin.Default()
	// 若配置了全局访问密码，则启用 Basic Auth 保护（/health 仍然免认证）
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	apiServer := api.NewServer(store, registry, s.RunOnce)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// basicAuthMiddleware 为整个站点增加一个简单的 Basic Auth 访问密码。
// 仅当配置了 APP_BASIC_USER / APP_BASIC_PASS 时启用。
// /health 不做认证，便于健康检查。
func basicAuthMiddleware(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
