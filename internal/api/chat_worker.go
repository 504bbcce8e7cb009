package api

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	channelTelegram = "telegram"
	channelWhatsApp = "whatsapp"

	// chatQueueSize bounds pending webhook messages. The pipeline behind a
	// job does an LLM round trip, so the queue absorbs webhook bursts.
	chatQueueSize = 64

	// chatJobTimeout covers retrieval, the model call and the reply send.
	chatJobTimeout = 3 * time.Minute
)

// chatJob is one inbound chat message waiting to be answered and replied to.
type chatJob struct {
	channel   string
	chatID    int64  // telegram
	recipient string // whatsapp phone number
	text      string
}

func (a *API) startChatWorker() {
	go a.chatWorker()
	a.log.Info("chat worker started")
}

// enqueueChat hands a job to the worker without blocking the webhook
// response. A full queue drops the message; the sender will ask again.
func (a *API) enqueueChat(job chatJob) {
	select {
	case a.chatQueue <- job:
		a.log.Debug("queued chat job",
			zap.String("channel", job.channel),
			zap.Int("queue_depth", len(a.chatQueue)))
	default:
		a.log.Warn("chat queue full, dropping message", zap.String("channel", job.channel))
	}
}

func (a *API) chatWorker() {
	for job := range a.chatQueue {
		a.processChatJob(job)
	}
}

func (a *API) processChatJob(job chatJob) {
	ctx, cancel := context.WithTimeout(context.Background(), chatJobTimeout)
	defer cancel()

	start := time.Now()
	answer := a.answerQuestion(ctx, job.text)

	var err error
	switch job.channel {
	case channelTelegram:
		err = a.telegram.SendMessage(ctx, job.chatID, answer)
	case channelWhatsApp:
		err = a.whatsapp.SendText(ctx, job.recipient, answer)
	}

	if err != nil {
		a.log.Error("failed to deliver chat reply",
			zap.String("channel", job.channel),
			zap.Error(err))
		return
	}

	a.log.Info("chat reply delivered",
		zap.String("channel", job.channel),
		zap.Duration("took", time.Since(start)))
}
