package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"todokAPI/internal/encouragement"
	"todokAPI/internal/notification"
)

// Encourager never fails; it degrades to fallback text itself.
type Encourager interface {
	EncouragementFor(ctx context.Context, taskTitle string) string
}

type EncouragementJob struct {
	Ticket      uint64
	ChallengeID string
	Title       string
}

// EncouragementDispatcher fetches encouragements off the request path.
type EncouragementDispatcher struct {
	encourager Encourager
	board      *EncouragementBoard
	pusher     notification.Pusher
	workers    int
	jobQueue   chan *EncouragementJob
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	logger     *zap.Logger
}

func NewEncouragementDispatcher(encourager Encourager, board *EncouragementBoard, workers int, logger *zap.Logger) *EncouragementDispatcher {
	if workers < 1 {
		workers = 1
	}
	d := &EncouragementDispatcher{
		encourager: encourager,
		board:      board,
		workers:    workers,
		jobQueue:   make(chan *EncouragementJob, 32),
		stopChan:   make(chan struct{}),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

// SetPushProvider also delivers accepted encouragements as push messages.
func (d *EncouragementDispatcher) SetPushProvider(p notification.Pusher) {
	d.pusher = p
}

func (d *EncouragementDispatcher) Board() *EncouragementBoard {
	return d.board
}

func (d *EncouragementDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *EncouragementDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.processJob(job)
		case <-d.stopChan:
			return
		}
	}
}

func (d *EncouragementDispatcher) processJob(job *EncouragementJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	message := d.encourager.EncouragementFor(ctx, job.Title)
	if !d.board.Resolve(job.Ticket, message) {
		d.logger.Debug("dropping stale encouragement", zap.Uint64("ticket", job.Ticket))
		return
	}

	if d.pusher != nil {
		data := map[string]string{"challengeId": job.ChallengeID}
		if err := d.pusher.Push(ctx, job.Title, message, data); err != nil {
			d.logger.Warn("encouragement push failed", zap.Error(err))
		}
	}
}

// Dispatch opens a pending toast and queues the fetch. A full queue
// resolves the toast with the fallback immediately.
func (d *EncouragementDispatcher) Dispatch(challengeID, title string) Toast {
	toast := d.board.Begin(challengeID)
	job := &EncouragementJob{Ticket: toast.Ticket, ChallengeID: challengeID, Title: title}

	select {
	case d.jobQueue <- job:
	default:
		d.logger.Warn("encouragement queue full, using fallback", zap.String("challengeId", challengeID))
		d.board.Resolve(toast.Ticket, encouragement.FallbackEncouragement)
		if current, ok := d.board.Current(); ok {
			return current
		}
	}
	return toast
}

func (d *EncouragementDispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.logger.Info("stopping encouragement dispatcher")
		close(d.stopChan)
		d.wg.Wait()
	})
}
