package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LJTian/FinNewsHub/internal/collector"
	"github.com/LJTian/FinNewsHub/internal/processor"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewsArticle 入库后的文章行，url_hash 作为幂等键
type NewsArticle struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	URLHash     string         `gorm:"size:40;uniqueIndex" json:"-"`
	SourceID    string         `gorm:"size:64;index" json:"sourceId"`
	SourceName  string         `gorm:"size:128" json:"sourceName"`
	Title       string         `gorm:"size:512" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	URL         string         `gorm:"size:1024" json:"url"`
	PublishedAt time.Time      `gorm:"index" json:"publishedAt"`
	Content     *string        `gorm:"type:text" json:"content"`
	RawData     datatypes.JSON `gorm:"type:jsonb" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStore 连接 PostgreSQL 并迁移表结构；redisAddr 为空时不启用列表缓存
func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&NewsArticle{}); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: redisAddr,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// truncateRunesDB 按 rune 数截断，确保不超过数据库字段长度（例如 varchar(512)）
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// SaveBatch 落库一批文章，url_hash 相同的行按最新抓取结果更新。
// 没有链接的条目生成不了幂等键，只依赖 JSON 落盘，这里跳过
func (s *Store) SaveBatch(articles []collector.Article) error {
	for _, a := range articles {
		if a.URL == "" {
			continue
		}

		title := truncateRunesDB(toValidUTF8(a.Title), 512)
		description := toValidUTF8(a.Description)
		var content *string
		if a.Content != nil {
			c := toValidUTF8(*a.Content)
			content = &c
		}
		raw, _ := json.Marshal(a)

		row := &NewsArticle{
			URLHash:     processor.HashURL(a.URL),
			SourceID:    a.Source.ID,
			SourceName:  a.Source.Name,
			Title:       title,
			Description: description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Content:     content,
			RawData:     datatypes.JSON(raw),
		}

		// 以 url_hash 作为幂等键；已存在时刷新标题摘要等展示字段
		if err := s.DB.Where("url_hash = ?", row.URLHash).FirstOrCreate(row).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"title":        title,
			"description":  description,
			"published_at": a.PublishedAt,
			"raw_data":     datatypes.JSON(raw),
		}
		// 本轮没抓到正文时保留库里已有的，不用 null 覆盖
		if content != nil {
			updates["content"] = content
		}
		_ = s.DB.Model(row).Updates(updates).Error
	}

	// 这里不做按 key 通配删除，列表缓存完全依赖短 TTL 自然过期，
	// 避免无效的通配符删除和额外的 Redis 扫描
	return nil
}

// ListArticles 按来源返回最新入库的文章，并用 Redis 做简单缓存
// sourceID: 来源 id，可为空表示全部
func (s *Store) ListArticles(sourceID string, limit int) ([]NewsArticle, error) {
	if limit <= 0 || limit > 1000 {
		limit = 20
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("news:list:%s:%d", sourceID, limit)

	// L2: Redis 缓存
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []NewsArticle
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	// DB 兜底
	var list []NewsArticle
	db := s.DB.Model(&NewsArticle{})
	if sourceID != "" {
		db = db.Where("source_id = ?", sourceID)
	}
	if err := db.Order("published_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	// 回写缓存（5 分钟，减轻整点采集后首次打开的 DB 压力）
	const listCacheTTL = 5 * time.Minute
	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return list, nil
}
