package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"file_rename_bot/internal/pkg/rename/domain"
	"file_rename_bot/internal/pkg/rename/queue"
)

// Gateway is the slice of the messaging transport the worker itself
// needs for the transient progress message.
type Gateway interface {
	Send(chatID int64, text string) (domain.MessageRef, error)
	Edit(ref domain.MessageRef, text string) error
}

// ProcessFunc runs the pipeline for one task and reports the
// task-level result.
type ProcessFunc func(ctx context.Context, task *domain.RenameTask, statusMsg domain.MessageRef) (bool, string)

// Worker is the single task consumer. It pops one task at a time,
// never holding the queue lock while the pipeline runs, so enqueues
// are never blocked by an in-flight render. The loop survives any
// fault and only stops on context cancellation.
type Worker struct {
	queue   *queue.Queue
	gateway Gateway
	process ProcessFunc

	idlePoll     time.Duration
	taskPause    time.Duration
	faultBackoff time.Duration
}

func New(q *queue.Queue, gateway Gateway, process ProcessFunc, idlePoll, taskPause, faultBackoff time.Duration) *Worker {
	return &Worker{
		queue:        q,
		gateway:      gateway,
		process:      process,
		idlePoll:     idlePoll,
		taskPause:    taskPause,
		faultBackoff: faultBackoff,
	}
}

// Run processes tasks until ctx is cancelled. An in-flight task is
// allowed to finish; only new dequeues stop.
func (w *Worker) Run(ctx context.Context) {
	log.Info().Msg("rename queue worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("rename queue worker stopped")
			return
		default:
		}
		w.step(ctx)
	}
}

func (w *Worker) step(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("unhandled fault in worker loop")
			sleepCtx(ctx, w.faultBackoff)
		}
	}()

	task, ok := w.queue.Dequeue()
	if !ok {
		sleepCtx(ctx, w.idlePoll)
		return
	}

	log.Info().Str("task_id", task.ID).Int64("user_id", task.UserID).
		Bool("priority", task.IsPriority).Msg("processing rename task")

	statusMsg, err := w.gateway.Send(task.Source.ChatID, "⏳ Your file is now being processed...")
	if err != nil {
		log.Error().Err(err).Int64("user_id", task.UserID).Msg("failed to send status message, dropping task")
		sleepCtx(ctx, w.taskPause)
		return
	}

	success, resultMsg := w.process(ctx, task, statusMsg)
	if success {
		log.Info().Str("task_id", task.ID).Msg("rename task completed")
	} else {
		log.Error().Str("task_id", task.ID).Str("reason", resultMsg).Msg("rename task failed")
		if err := w.gateway.Edit(statusMsg, "❌ Renaming failed for your file: "+resultMsg); err != nil {
			log.Warn().Err(err).Msg("failed to report task failure")
		}
	}

	// Bound the outbound message rate between tasks.
	sleepCtx(ctx, w.taskPause)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
