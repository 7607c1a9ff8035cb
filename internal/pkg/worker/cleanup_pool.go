package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"community_hub/internal/pkg/uploader"
	"community_hub/pkg/logger"
	"community_hub/pkg/metrics"

	"go.uber.org/zap"
)

// Remover 删除已上传的图片
type Remover interface {
	Delete(ctx context.Context, url string) error
}

// CleanupTask 图片清理任务
type CleanupTask struct {
	URL   string
	Retry int // 已重试次数
}

// CleanupPool 异步图片清理协程池，失败任务进入重试队列，超过上限后写入死信日志
type CleanupPool struct {
	taskQueue  chan CleanupTask
	retryQueue chan CleanupTask
	remover    Remover
	workerNum  int
	metrics    *metrics.MetricsCollector

	MaxRetry   int
	RetryDelay time.Duration
	Timeout    time.Duration // 单次删除超时

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewCleanupPool(remover Remover, workerNum, bufferSize int, collector *metrics.MetricsCollector) *CleanupPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &CleanupPool{
		taskQueue:  make(chan CleanupTask, bufferSize),
		retryQueue: make(chan CleanupTask, bufferSize),
		remover:    remover,
		workerNum:  workerNum,
		metrics:    collector,
		MaxRetry:   3,
		RetryDelay: time.Second,
		Timeout:    10 * time.Second,
		done:       make(chan struct{}),
	}
}

func (p *CleanupPool) Start() {
	for i := 0; i < p.workerNum; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.wg.Add(1)
	go p.retryWorker()
	logger.Log.Info("cleanup pool started", zap.Int("workers", p.workerNum))
}

// Stop 停止所有协程，队列中未处理的任务被丢弃
func (p *CleanupPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		logger.Log.Info("cleanup pool stopped")
	})
}

// Schedule 提交清理任务，队列已满或已停止时返回 false
func (p *CleanupPool) Schedule(url string) bool {
	select {
	case <-p.done:
		return false
	default:
	}

	select {
	case p.taskQueue <- CleanupTask{URL: url}:
		return true
	default:
		p.deadLetter(CleanupTask{URL: url}, errors.New("cleanup queue full"))
		return false
	}
}

func (p *CleanupPool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case task := <-p.taskQueue:
			p.process(id, task)
		}
	}
}

func (p *CleanupPool) process(id int, task CleanupTask) {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	err := p.remover.Delete(ctx, task.URL)
	cancel()

	if err == nil {
		p.metrics.RecordMediaCleanup("ok")
		return
	}
	if errors.Is(err, uploader.ErrNotManaged) {
		p.metrics.RecordMediaCleanup("skipped")
		return
	}

	logger.Log.Warn("image cleanup failed",
		zap.Int("worker", id),
		zap.String("url", task.URL),
		zap.Int("retry", task.Retry),
		zap.Error(err),
	)

	if task.Retry >= p.MaxRetry {
		p.deadLetter(task, err)
		return
	}

	task.Retry++
	p.metrics.RecordMediaCleanup("retry")
	select {
	case p.retryQueue <- task:
	default:
		p.deadLetter(task, err)
	}
}

func (p *CleanupPool) retryWorker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case task := <-p.retryQueue:
			// 按重试次数线性退避
			select {
			case <-p.done:
				return
			case <-time.After(time.Duration(task.Retry) * p.RetryDelay):
			}

			select {
			case p.taskQueue <- task:
			default:
				p.deadLetter(task, errors.New("cleanup queue full"))
			}
		}
	}
}

func (p *CleanupPool) deadLetter(task CleanupTask, err error) {
	p.metrics.RecordMediaCleanup("failed")
	logger.Log.Error("image cleanup abandoned",
		zap.String("url", task.URL),
		zap.Int("retry", task.Retry),
		zap.Error(err),
	)
}
