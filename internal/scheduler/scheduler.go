package scheduler

import (
	"log"
	"time"

	"github.com/LJTian/FinNewsHub/internal/pipeline"
	"github.com/robfig/cron/v3"
)

// Scheduler 按 cron 规则周期性跑采集流水线
type Scheduler struct {
	cron *cron.Cron
	pipe *pipeline.Pipeline
	opts pipeline.Options
}

// New 注册采集任务，spec 为标准 5 段 cron 表达式
func New(spec string, pipe *pipeline.Pipeline, opts pipeline.Options) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron: c,
		pipe: pipe,
		opts: opts,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟执行首轮采集，避免与服务启动时的首批请求争抢资源
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.runOnce()
	})
}

// RunOnce 对外暴露的单次执行入口，方便手动触发采集
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

// Cron 暴露底层 cron 实例，便于调用方追加额外任务
func (s *Scheduler) Cron() *cron.Cron {
	return s.cron
}

func (s *Scheduler) runOnce() {
	if _, err := s.pipe.Run(s.opts); err != nil {
		log.Printf("collect job failed: %v", err)
	}
}
