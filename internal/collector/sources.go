package collector

// SourceSpec 描述一个抓取源：入口页地址与各字段的 CSS 选择器。
// 选择器是随站点改版需要维护的数据，不属于抓取算法本身；
// 子选择器为空字符串表示该源没有对应字段。
type SourceSpec struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	URL             string `json:"url"`
	ArticleSelector string `json:"-"`
	TitleSelector   string `json:"-"`
	LinkSelector    string `json:"-"`
	SummarySelector string `json:"-"`
	DateSelector    string `json:"-"`
}

// 内置的八个财经源。页面结构调整时只需要改这张表
var defaultSources = []SourceSpec{
	{
		ID:              "yahoo_finance",
		Name:            "Yahoo Finance",
		URL:             "https://finance.yahoo.com/news/",
		ArticleSelector: `div.Ov\(h\).Pend\(44px\).Pstart\(25px\)`,
		TitleSelector:   "h3",
		LinkSelector:    "a",
		SummarySelector: "p",
		DateSelector:    `span.C\(\#959595\)`,
	},
	{
		ID:              "cnbc",
		Name:            "CNBC",
		URL:             "https://www.cnbc.com/world/?region=world",
		ArticleSelector: ".Card-standardBreakerCard, .Card-card",
		TitleSelector:   ".Card-title",
		LinkSelector:    "a",
		SummarySelector: ".Card-description",
		DateSelector:    "time",
	},
	{
		ID:              "seeking_alpha",
		Name:            "Seeking Alpha",
		URL:             "https://seekingalpha.com/market-news",
		ArticleSelector: "div.media-preview-content",
		TitleSelector:   "a.media-link",
		LinkSelector:    "a.media-link",
		SummarySelector: "p.media-preview-summary",
		DateSelector:    "span.media-date",
	},
	{
		ID:              "finviz",
		Name:            "Finviz",
		URL:             "https://finviz.com/news.ashx",
		ArticleSelector: "tr.nn",
		TitleSelector:   "a.nn-tab-link",
		LinkSelector:    "a.nn-tab-link",
		DateSelector:    "td.nn-date",
	},
	{
		ID:              "market_watch_latest",
		Name:            "MarketWatch Latest",
		URL:             "https://www.marketwatch.com/latest-news?mod=top_nav",
		ArticleSelector: "div.article__content",
		TitleSelector:   "h3.article__headline",
		LinkSelector:    "a",
		SummarySelector: "p.article__summary",
		DateSelector:    ".article__timestamp",
	},
	{
		ID:              "bloomberg",
		Name:            "Bloomberg",
		URL:             "https://www.bloomberg.com/markets",
		ArticleSelector: "article.story-list-story",
		TitleSelector:   "h3.story-list-story__headline",
		LinkSelector:    "a.story-list-story__info__headline-link",
		SummarySelector: "p.story-list-story__summary",
		DateSelector:    "time.story-list-story__time",
	},
	{
		ID:              "investing_analysis",
		Name:            "Investing.com Analysis",
		URL:             "https://www.investing.com/analysis/most-popular-analysis",
		ArticleSelector: "article.articleItem",
		TitleSelector:   ".title",
		LinkSelector:    "a.title",
		SummarySelector: "p",
		DateSelector:    ".date",
	},
	{
		ID:              "zacks",
		Name:            "Zacks",
		URL:             "https://www.zacks.com/stock-market-today",
		ArticleSelector: ".commentary_module_row",
		TitleSelector:   "a",
		LinkSelector:    "a",
		SummarySelector: "p",
		DateSelector:    ".date_time",
	},
}

// Registry 进程启动时构建一次的只读源注册表
type Registry struct {
	specs []SourceSpec
	byID  map[string]SourceSpec
}

func NewRegistry(specs []SourceSpec) *Registry {
	byID := make(map[string]SourceSpec, len(specs))
	for _, s := range specs {
		byID[s.ID] = s
	}
	return &Registry{specs: specs, byID: byID}
}

// DefaultRegistry 返回内置财经源组成的注册表
func DefaultRegistry() *Registry {
	return NewRegistry(defaultSources)
}

// All 按注册顺序返回全部源
func (r *Registry) All() []SourceSpec {
	out := make([]SourceSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Get 按 id 查找源
func (r *Registry) Get(id string) (SourceSpec, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// Resolve 把请求的 id 列表解析为已注册的源；未注册的 id 静默忽略，
// ids 为空时等价于选择全部源
func (r *Registry) Resolve(ids []string) []SourceSpec {
	if len(ids) == 0 {
		return r.All()
	}
	out := make([]SourceSpec, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
