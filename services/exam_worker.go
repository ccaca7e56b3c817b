package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jobhelper/backend/repository"
)

const (
	examQueueSize    = 100
	examPollInterval = 10 * time.Second
	examPollBatch    = 20
)

// ExamWorker drains queued exams through a fixed pool of goroutines. A
// ticker re-enqueues rows still marked queued so jobs survive restarts
// and channel overflow.
type ExamWorker struct {
	repo        *repository.GORMRepository
	exams       *ExamService
	jobQueue    chan string
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewExamWorker(repo *repository.GORMRepository, exams *ExamService, concurrency int) *ExamWorker {
	if concurrency <= 0 {
		concurrency = 2
	}
	return &ExamWorker{
		repo:        repo,
		exams:       exams,
		jobQueue:    make(chan string, examQueueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

func (w *ExamWorker) Start(ctx context.Context) {
	slog.Info("Starting exam workers", "concurrency", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i)
	}

	w.wg.Add(1)
	go w.pollQueuedExams(ctx)
}

func (w *ExamWorker) Stop() {
	slog.Info("Stopping exam workers")
	close(w.stopChan)
	w.wg.Wait()
}

// Enqueue hands an exam to the pool without blocking the request path.
// A full queue is fine; the poller will pick the row up later.
func (w *ExamWorker) Enqueue(examID string) {
	select {
	case w.jobQueue <- examID:
	default:
		slog.Warn("Exam queue full, deferring to poller", "exam_id", examID)
	}
}

func (w *ExamWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case examID := <-w.jobQueue:
			if err := w.exams.GenerateExam(ctx, examID); err != nil {
				slog.Error("Exam job failed", "worker", workerID, "exam_id", examID, "error", err)
			}
		}
	}
}

func (w *ExamWorker) pollQueuedExams(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(examPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			ids, err := w.repo.GetQueuedExamIDs(ctx, examPollBatch)
			if err != nil {
				slog.Error("Failed to poll queued exams", "error", err)
				continue
			}
			for _, id := range ids {
				w.Enqueue(id)
			}
		}
	}
}
