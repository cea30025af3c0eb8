package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Task is the work the scheduler runs on every tick.
type Task interface {
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to Task.
type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Run(ctx context.Context) error { return f(ctx) }

// SchedulerService exposes a small control surface for the scheduler.
// Start/Stop are synchronous controls, and IsRunning reports
// whether the scheduler is currently accepting ticks.
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// DefaultInterval is used when no custom interval is provided.
const DefaultInterval = 5 * time.Minute

// DefaultRunTimeout is how long a single run may take before its
// context is cancelled.
const DefaultRunTimeout = 30 * time.Second

// controlTimeout is how long we wait for the control loop to
// accept a command and answer it.
const controlTimeout = 2 * time.Second

// controlOp represents the kind of command sent into the internal control loop.
type controlOp int

const (
	opStart controlOp = iota
	opStop
	opStatus
)

// controlMsg is sent over the ctrl channel to drive the scheduler's state.
type controlMsg struct {
	op   controlOp
	resp chan bool // used by callers to get a synchronous answer
}

// schedulerService owns the internal state and runs the control loop.
// All mutable state lives in the loop goroutine, so we don't need locks.
type schedulerService struct {
	name       string
	task       Task
	interval   time.Duration
	runTimeout time.Duration
	ctrl       chan controlMsg

	ctrlTimeout time.Duration
}

// NewSchedulerService creates a scheduler that runs task every interval.
// name only appears in log lines. Values <= 0 fall back to the defaults.
func NewSchedulerService(
	name string,
	task Task,
	interval time.Duration,
	runTimeout time.Duration,
) SchedulerService {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if runTimeout <= 0 {
		runTimeout = DefaultRunTimeout
	}

	s := &schedulerService{
		name:       name,
		task:       task,
		interval:   interval,
		runTimeout: runTimeout,
		ctrl:       make(chan controlMsg),

		ctrlTimeout: controlTimeout,
	}

	// The control loop is started in its own goroutine and lives
	// for the lifetime of the process.
	go s.loop()

	return s
}

// Start tells the scheduler to begin running the task on each tick.
// It blocks until the control loop has acknowledged the change.
func (s *schedulerService) Start() error {
	_, err := s.send(opStart, "Start")
	return err
}

// Stop tells the scheduler to ignore further ticks. A run that is in
// progress is allowed to finish (or time out) first.
func (s *schedulerService) Stop() error {
	_, err := s.send(opStop, "Stop")
	return err
}

// send delivers a control command and waits for the loop's answer,
// giving up after ctrlTimeout at either step.
func (s *schedulerService) send(op controlOp, name string) (bool, error) {
	resp := make(chan bool, 1)

	select {
	case s.ctrl <- controlMsg{op: op, resp: resp}:
	case <-time.After(s.ctrlTimeout):
		return false, fmt.Errorf("[Scheduler %s] %s: control loop not responding", s.name, name)
	}

	select {
	case v := <-resp:
		return v, nil
	case <-time.After(s.ctrlTimeout):
		return false, fmt.Errorf("[Scheduler %s] %s: acknowledgement timeout", s.name, name)
	}
}

// IsRunning reports whether ticks are currently being acted on. It does
// not say whether the task is executing right now. While a run holds the
// loop it gives up after ctrlTimeout and reports true, since only a
// started scheduler runs the task.
func (s *schedulerService) IsRunning() bool {
	running, err := s.send(opStatus, "IsRunning")
	if err != nil {
		log.Printf("%v", err)
		return true
	}
	return running
}

// loop owns all scheduler state and reacts to control messages and ticks.
func (s *schedulerService) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	running := false

	for {
		select {
		case msg := <-s.ctrl:
			switch msg.op {
			case opStart:
				if !running {
					log.Printf("[Scheduler %s] Started (interval=%s, runTimeout=%s)",
						s.name, s.interval, s.runTimeout)
				}
				running = true
				msg.resp <- true

			case opStop:
				if running {
					log.Printf("[Scheduler %s] Stopped.", s.name)
				}
				running = false
				msg.resp <- true

			case opStatus:
				msg.resp <- running
			}

		case <-ticker.C:
			if !running {
				continue
			}
			// The task runs on this goroutine, so control messages sent
			// meanwhile wait until it returns.
			s.runOnce()
		}
	}
}

func (s *schedulerService) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	start := time.Now()
	if err := s.task.Run(ctx); err != nil {
		log.Printf("[Scheduler %s] Run failed after %s: %v", s.name, time.Since(start), err)
		return
	}
	log.Printf("[Scheduler %s] Run completed in %s.", s.name, time.Since(start))
}
