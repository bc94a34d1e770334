// Package sync polls the tracker API in the background so the lists
// stay fresh without manual refreshes. Results are delivered into the
// Bubble Tea update loop as messages; the poller itself never touches
// view state.
package sync

import (
	"context"
	"log"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
	"taskdeck/internal/store"
)

// RefreshedMsg is a tea.Msg sent when a background refresh completes.
type RefreshedMsg struct {
	Projects []model.Project
	Tasks    []model.Task
	Err      error
}

// fetchTimeout is the maximum time allowed for one refresh round trip.
const fetchTimeout = 30 * time.Second

// Poller periodically refetches the project and task collections.
type Poller struct {
	client   *api.Client
	cache    store.Cache
	interval time.Duration

	resultCh  chan RefreshedMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      gosync.Mutex
	running bool
}

// New creates a Poller. The cache may be nil; when set, successful
// refreshes are written through to it.
func New(client *api.Client, cache store.Cache, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	return &Poller{
		client:    client,
		cache:     cache,
		interval:  interval,
		resultCh:  make(chan RefreshedMsg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a subscription
// command that waits for the first result. Starting an already running
// poller is a no-op.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// RefreshNow triggers an immediate refresh without waiting for the
// next tick.
func (p *Poller) RefreshNow() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A refresh is already queued.
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh
// result. Call it after processing a RefreshedMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	stopCh := p.stopCh

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.refresh()
		case <-p.triggerCh:
			p.refresh()
		}
	}
}

// refresh fetches both collections and delivers one combined result.
func (p *Poller) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	projects, err := p.client.Projects(ctx)
	if err != nil {
		p.sendResult(RefreshedMsg{Err: err})
		return
	}

	tasks, err := p.client.Tasks(ctx, api.TaskListFilter{})
	if err != nil {
		p.sendResult(RefreshedMsg{Err: err})
		return
	}

	if p.cache != nil {
		if cerr := p.cache.ReplaceProjects(ctx, projects); cerr != nil {
			log.Printf("background project cache write failed: %v", cerr)
		}
		if cerr := p.cache.ReplaceTasks(ctx, tasks); cerr != nil {
			log.Printf("background task cache write failed: %v", cerr)
		}
	}

	p.sendResult(RefreshedMsg{Projects: projects, Tasks: tasks})
}

// sendResult delivers a result without blocking the polling goroutine.
func (p *Poller) sendResult(msg RefreshedMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if the update loop is behind; the next tick catches up.
	}
}

func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}
