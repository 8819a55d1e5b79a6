package api

import (
	"net/http"
	"strconv"

	"github.com/LJTian/FinNewsHub/internal/collector"
	"github.com/LJTian/FinNewsHub/internal/storage"
	"github.com/gin-gonic/gin"
)

type Server struct {
	store    *storage.Store
	registry *collector.Registry
	trigger  func()
}

// NewServer 组装只读查询接口；trigger 为手动触发一轮采集的钩子，可为 nil
func NewServer(store *storage.Store, registry *collector.Registry, trigger func()) *Server {
	return &Server{store: store, registry: registry, trigger: trigger}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
		v1.GET("/sources", s.listSources)
		v1.POST("/collect", s.collect)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listNews(c *gin.Context) {
	source := c.Query("source")

	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20
	}

	items, err := s.store.ListArticles(source, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}

// listSources 返回内置来源列表，选择器细节不对外暴露
func (s *Server) listSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    s.registry.All(),
	})
}

// collect 异步触发一轮采集，立即返回
func (s *Server) collect(c *gin.Context) {
	if s.trigger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "collect_disabled",
			"message": "collect job not configured",
		})
		return
	}
	go s.trigger()
	c.JSON(http.StatusAccepted, gin.H{
		"code":    "ok",
		"message": "collect started",
	})
}
