package jobs

import (
	"context"
	"sync"
	"time"

	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
)

// PeriodicTask 등록된 주기적 작업
type PeriodicTask struct {
	Name      string
	Interval  time.Duration
	Handler   func(ctx context.Context) error
	LastRun   time.Time
	NextRun   time.Time
	RunCount  int64
	LastError error
}

// Scheduler runs periodic maintenance inside the worker process
// (scheduled-publish sweep, expired sessions, version pruning).
type Scheduler struct {
	tasks     []*PeriodicTask
	mu        sync.RWMutex
	tickEvery time.Duration
	stop      chan struct{}
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewScheduler 스케줄러 생성; tickEvery is the polling resolution
func NewScheduler(tickEvery time.Duration) *Scheduler {
	if tickEvery <= 0 {
		tickEvery = 30 * time.Second
	}
	return &Scheduler{
		tasks:     make([]*PeriodicTask, 0),
		tickEvery: tickEvery,
		stop:      make(chan struct{}),
		now:       time.Now,
	}
}

// Register 주기적 작업 등록; the first run happens one interval after registration
func (s *Scheduler) Register(name string, interval time.Duration, handler func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, &PeriodicTask{
		Name:     name,
		Interval: interval,
		Handler:  handler,
		NextRun:  s.now().Add(interval),
	})

	pkglogger.GetLogger().Info().
		Str("task", name).
		Dur("interval", interval).
		Msg("periodic task registered")
}

// Start 스케줄러 시작 (백그라운드 goroutine)
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.tickEvery)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.tick(ctx, now)
			}
		}
	}()
	pkglogger.GetLogger().Info().Msg("periodic scheduler started")
}

// Stop 스케줄러 중지
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
	pkglogger.GetLogger().Info().Msg("periodic scheduler stopped")
}

// tick 실행 대상 작업 체크 및 실행
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	s.mu.RLock()
	tasks := make([]*PeriodicTask, len(s.tasks))
	copy(tasks, s.tasks)
	s.mu.RUnlock()

	log := pkglogger.GetLogger()
	for _, task := range tasks {
		if now.Before(task.NextRun) {
			continue
		}

		err := task.Handler(ctx)
		if err != nil {
			log.Error().Err(err).Str("task", task.Name).Msg("periodic task failed")
		}

		s.mu.Lock()
		task.LastError = err
		task.LastRun = now
		task.NextRun = now.Add(task.Interval)
		task.RunCount++
		s.mu.Unlock()
	}
}

// Tasks 등록된 작업 목록 조회 (모니터링용)
func (s *Scheduler) Tasks() []PeriodicTaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]PeriodicTaskInfo, 0, len(s.tasks))
	for _, t := range s.tasks {
		info := PeriodicTaskInfo{
			Name:     t.Name,
			Interval: t.Interval.String(),
			LastRun:  t.LastRun,
			NextRun:  t.NextRun,
			RunCount: t.RunCount,
		}
		if t.LastError != nil {
			errMsg := t.LastError.Error()
			info.LastError = &errMsg
		}
		result = append(result, info)
	}
	return result
}

// PeriodicTaskInfo 작업 정보 (JSON 응답용)
type PeriodicTaskInfo struct {
	Name      string    `json:"name"`
	Interval  string    `json:"interval"`
	LastRun   time.Time `json:"last_run"`
	NextRun   time.Time `json:"next_run"`
	RunCount  int64     `json:"run_count"`
	LastError *string   `json:"last_error,omitempty"`
}
