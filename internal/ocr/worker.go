package ocr

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Worker struct {
	service  *Service
	interval time.Duration
	log      *zap.Logger
}

func NewWorker(service *Service, interval time.Duration, log *zap.Logger) *Worker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Worker{service: service, interval: interval, log: log}
}

// Run polls until ctx is cancelled. Each tick drains the queue.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("🚀 OCR worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.Drain(ctx)

		select {
		case <-ctx.Done():
			w.log.Info("OCR worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// Drain processes jobs until the queue is empty, ctx ends or a repository
// error occurs. It returns the number of images processed.
func (w *Worker) Drain(ctx context.Context) int {
	n := 0
	for ctx.Err() == nil {
		processed, err := w.service.ProcessOne(ctx)
		if err != nil {
			if ctx.Err() == nil {
				w.log.Error("ocr job failed", zap.Error(err))
			}
			return n
		}
		if !processed {
			return n
		}
		n++
	}
	return n
}
