package pipeline

import (
	"log"
	"sync"
	"time"

	"github.com/LJTian/FinNewsHub/internal/collector"
	"github.com/LJTian/FinNewsHub/internal/processor"
	"github.com/LJTian/FinNewsHub/internal/storage"
)

// sourceConcurrency 同时在抓的来源数与详情页数上限
const sourceConcurrency = 3

// Options 控制一轮采集的行为
type Options struct {
	// SourceIDs 要抓的来源，空表示全部
	SourceIDs []string
	// FetchContent 是否抓详情页补全正文
	FetchContent bool
	// Persist 是否把结果写入 JSON 文件与数据库
	Persist bool
}

// Pipeline 串起 抓取-抽取-补全-排序去重-落盘 的一轮采集
type Pipeline struct {
	registry   *collector.Registry
	client     *collector.Client
	enricher   *collector.Enricher
	processor  *processor.Processor
	store      *storage.Store
	outputPath string
}

// New 组装流水线。store 为 nil 表示只落 JSON 文件，
// enricher 为 nil 时 FetchContent 不生效
func New(registry *collector.Registry, client *collector.Client, enricher *collector.Enricher, store *storage.Store, outputPath string) *Pipeline {
	return &Pipeline{
		registry:   registry,
		client:     client,
		enricher:   enricher,
		processor:  processor.NewProcessor(),
		store:      store,
		outputPath: outputPath,
	}
}

// Run 执行一轮抓取并返回排序去重后的文章列表。
// 单个来源失败只影响自己；JSON 落盘失败视为整轮失败
func (p *Pipeline) Run(opts Options) ([]collector.Article, error) {
	specs := p.registry.Resolve(opts.SourceIDs)
	log.Printf("start collect job: %d sources...", len(specs))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, sourceConcurrency)
		all []collector.Article
	)

	for _, spec := range specs {
		wg.Add(1)
		sem <- struct{}{}
		go func(spec collector.SourceSpec) {
			defer wg.Done()
			defer func() { <-sem }()

			articles := p.scrapeSource(spec)
			if len(articles) == 0 {
				return
			}
			mu.Lock()
			all = append(all, articles...)
			mu.Unlock()
		}(spec)
	}
	wg.Wait()

	if opts.FetchContent {
		all = p.enrichAll(all)
	}

	final := p.processor.Process(all)
	log.Printf("collect job done: %d articles after dedupe", len(final))

	if opts.Persist {
		if err := p.persist(final); err != nil {
			return final, err
		}
	}
	return final, nil
}

// RunAPI 走 NewsAPI 拉取，与抓取路径共用排序去重与落盘
func (p *Pipeline) RunAPI(client *collector.NewsAPIClient, daysBack int, sources []string, persist bool) ([]collector.Article, error) {
	articles, err := client.FetchEverything(daysBack, sources, time.Now())
	if err != nil {
		return nil, err
	}

	final := p.processor.Process(articles)
	log.Printf("newsapi job done: %d articles after dedupe", len(final))

	if persist {
		if err := p.persist(final); err != nil {
			return final, err
		}
	}
	return final, nil
}

// scrapeSource 抓单个来源的列表页并抽取文章，失败只记日志返回空列表
func (p *Pipeline) scrapeSource(spec collector.SourceSpec) []collector.Article {
	log.Printf("fetch from %s...", spec.ID)
	pageHTML, err := p.client.Get(spec.URL)
	if err != nil {
		log.Printf("fetch %s error: %v", spec.ID, err)
		return nil
	}
	articles := collector.ExtractArticles(pageHTML, spec, time.Now())
	log.Printf("%s done, %d articles", spec.ID, len(articles))
	return articles
}

// enrichAll 并发补全正文，按索引写回保持列表顺序
func (p *Pipeline) enrichAll(articles []collector.Article) []collector.Article {
	if p.enricher == nil || len(articles) == 0 {
		return articles
	}

	out := make([]collector.Article, len(articles))
	var wg sync.WaitGroup
	sem := make(chan struct{}, sourceConcurrency)

	for i, a := range articles {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, a collector.Article) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = p.enricher.Enrich(a)
		}(i, a)
	}
	wg.Wait()
	return out
}

// persist 先写 JSON 文件，失败即整轮失败；数据库入库尽力而为
func (p *Pipeline) persist(articles []collector.Article) error {
	if err := storage.SaveArticles(p.outputPath, articles); err != nil {
		return err
	}
	log.Printf("saved %d articles to %s", len(articles), p.outputPath)

	if p.store != nil {
		if err := p.store.SaveBatch(articles); err != nil {
			log.Printf("warn: save batch to db failed: %v", err)
		}
	}
	return nil
}
