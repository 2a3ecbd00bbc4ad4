package activity

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// LoginEvent describes one login attempt, successful or not.
type LoginEvent struct {
	Email          string
	Role           string
	Success        bool
	Message        string
	Endpoint       string
	RequestDetails string
}

// AuditEvent describes a user action on an authenticated endpoint.
type AuditEvent struct {
	UserID    uint
	Action    string
	IPAddress string
	Details   string
	ProductID *uint
}

// Recorder appends events to the activity log. Recording is always
// best-effort: implementations must never block the caller on
// persistence and never surface persistence failures.
type Recorder interface {
	RecordLogin(event LoginEvent)
	RecordAudit(event AuditEvent)
}

type queued struct {
	login *LoginActivity
	audit *AuditLog
}

// AsyncRecorder buffers events on a channel and persists them from a
// single worker goroutine. A full buffer drops the event with a log
// line rather than stalling the request that produced it.
type AsyncRecorder struct {
	log   *zap.Logger
	repo  Repository
	queue chan queued
	wg    sync.WaitGroup
	stop  sync.Once
}

const defaultQueueSize = 1024

func NewAsyncRecorder(repo Repository, log *zap.Logger) *AsyncRecorder {
	return &AsyncRecorder{
		log:   log,
		repo:  repo,
		queue: make(chan queued, defaultQueueSize),
	}
}

func (r *AsyncRecorder) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for item := range r.queue {
			r.persist(item)
		}
	}()
}

// Stop drains the queue and waits for the worker to finish.
func (r *AsyncRecorder) Stop() {
	r.stop.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

func (r *AsyncRecorder) RecordLogin(event LoginEvent) {
	record := &LoginActivity{
		Email:          event.Email,
		Role:           event.Role,
		Success:        event.Success,
		Message:        event.Message,
		Endpoint:       event.Endpoint,
		RequestDetails: event.RequestDetails,
		Timestamp:      time.Now(),
	}
	r.enqueue(queued{login: record})
}

func (r *AsyncRecorder) RecordAudit(event AuditEvent) {
	record := &AuditLog{
		UserID:    event.UserID,
		Action:    event.Action,
		IPAddress: event.IPAddress,
		Details:   event.Details,
		ProductID: event.ProductID,
		Timestamp: time.Now(),
	}
	r.enqueue(queued{audit: record})
}

func (r *AsyncRecorder) enqueue(item queued) {
	select {
	case r.queue <- item:
	default:
		r.log.Warn("activity queue full, dropping event")
	}
}

func (r *AsyncRecorder) persist(item queued) {
	var err error
	switch {
	case item.login != nil:
		err = r.repo.SaveLogin(item.login)
	case item.audit != nil:
		err = r.repo.SaveAudit(item.audit)
	}
	if err != nil {
		r.log.Error("failed to persist activity record", zap.Error(err))
	}
}
