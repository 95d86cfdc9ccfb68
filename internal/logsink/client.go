// Package logsink forwards structured log events to a remote collector.
// Delivery is fire-and-forget: enqueueing never blocks the originating
// operation and transport failures are only noted locally.
package logsink

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	defaultBufferSize  = 256
	defaultSendTimeout = 5 * time.Second
)

// Event is one structured log record as the collector expects it.
type Event struct {
	Stack   string `json:"stack"`
	Level   string `json:"level"`
	Package string `json:"package"`
	Message string `json:"message"`
}

// Config controls the collector endpoint and buffering.
type Config struct {
	CollectorURL string
	AuthToken    string
	BufferSize   int
	SendTimeout  time.Duration
}

// Client queues events on a buffered channel and drains it from one
// background goroutine. When the buffer is full new events are dropped
// rather than blocking the caller.
type Client struct {
	events  chan Event
	client  *http.Client
	url     string
	token   string
	log     *slog.Logger
	closeMu sync.Mutex
	closed  bool
	done    chan struct{}
}

// New starts the background sender. Close releases it.
func New(cfg Config, log *slog.Logger) *Client {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}

	c := &Client{
		events: make(chan Event, cfg.BufferSize),
		client: &http.Client{Timeout: cfg.SendTimeout},
		url:    cfg.CollectorURL,
		token:  cfg.AuthToken,
		log:    log,
		done:   make(chan struct{}),
	}

	go c.run()
	return c
}

// Log enqueues one event. Never blocks; drops when the buffer is full.
func (c *Client) Log(stack, level, pkg, msg string) {
	c.closeMu.Lock()
	if c.closed {
		c.closeMu.Unlock()
		return
	}

	select {
	case c.events <- Event{Stack: stack, Level: level, Package: pkg, Message: msg}:
	default:
		c.log.Debug("log sink buffer full, event dropped", "package", pkg)
	}
	c.closeMu.Unlock()
}

// Close stops accepting events, flushes what is already queued and waits
// for the sender to exit.
func (c *Client) Close() {
	c.closeMu.Lock()
	if c.closed {
		c.closeMu.Unlock()
		return
	}
	c.closed = true
	close(c.events)
	c.closeMu.Unlock()

	<-c.done
}

func (c *Client) run() {
	defer close(c.done)

	for evt := range c.events {
		c.send(evt)
	}
}

func (c *Client) send(evt Event) {
	if c.url == "" {
		return
	}

	body, err := json.Marshal(evt)
	if err != nil {
		c.log.Debug("log sink marshal failed", "error", err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		c.log.Debug("log sink request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug("log sink delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.log.Debug("log sink collector rejected event", "status", resp.StatusCode)
	}
}
