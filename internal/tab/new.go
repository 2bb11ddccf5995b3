package tab

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

const (
	defaultCallTimeout = 10 * time.Second
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	recordBuffer       = 256
)

// Conn is one tab's socket.
type Conn struct {
	ws          *websocket.Conn
	logger      logger.Logger
	callTimeout time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	seq     uint64
	pending map[string]chan Envelope
	subs    map[string]*subscription
	handler Handler
	closed  chan struct{}
	err     error

	// abandoned holds observe calls whose caller gave up before the page answered.
	abandoned map[string]struct{}
}

// NewConn wraps an upgraded socket. Call Run to start reading.
func NewConn(ws *websocket.Conn, log logger.Logger) *Conn {
	return &Conn{
		ws:          ws,
		logger:      log,
		callTimeout: defaultCallTimeout,
		pending:     make(map[string]chan Envelope),
		abandoned:   make(map[string]struct{}),
		subs:        make(map[string]*subscription),
		closed:      make(chan struct{}),
	}
}

// SetHandler installs the receiver of page events and calls. It must be set before Run.
func (c *Conn) SetHandler(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

// SetCallTimeout bounds every daemon-to-page call that has no earlier deadline.
func (c *Conn) SetCallTimeout(d time.Duration) {
	if d > 0 {
		c.callTimeout = d
	}
}
