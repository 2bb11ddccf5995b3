package tab

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by calls on a connection whose socket has gone away.
var ErrClosed = stderrors.New("tab connection closed")

// Run reads until the socket closes or ctx ends. It closes the socket on return.
func (c *Conn) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.keepalive(ctx)
	go func() {
		<-ctx.Done()
		c.ws.Close()
	}()

	var err error
	for {
		var env Envelope
		if err = c.ws.ReadJSON(&env); err != nil {
			break
		}
		c.dispatch(ctx, env)
	}

	c.shutdown(err)
	if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	return err
}

// Done is closed once the read loop has ended.
func (c *Conn) Done() <-chan struct{} {
	return c.closed
}

func (c *Conn) keepalive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				c.logger.Debug(ctx, "Ping failed: %v", err)
				return
			}
		}
	}
}

func (c *Conn) dispatch(ctx context.Context, env Envelope) {
	switch env.Kind {
	case KindResult:
		c.mu.Lock()
		ch, ok := c.pending[env.ID]
		delete(c.pending, env.ID)
		_, orphan := c.abandoned[env.ID]
		delete(c.abandoned, env.ID)
		c.mu.Unlock()
		if orphan {
			go c.releaseObserver(env)
			return
		}
		if !ok {
			c.logger.Debug(ctx, "Result for unknown call %s", env.ID)
			return
		}
		ch <- env

	case KindEvent:
		if env.Op == EventMutations {
			c.deliver(ctx, env.Params)
			return
		}
		if h := c.getHandler(); h != nil {
			h.HandleEvent(ctx, env.Op, env.Params)
		}

	case KindCall:
		h := c.getHandler()
		go func() {
			var (
				res any
				err = fmt.Errorf("no handler for %s", env.Op)
			)
			if h != nil {
				res, err = h.HandleCall(ctx, env.Op, env.Params)
			}
			if werr := c.reply(env.ID, res, err); werr != nil {
				c.logger.Warn(ctx, "Reply to %s: %v", env.Op, werr)
			}
		}()

	default:
		c.logger.Warn(ctx, "Unknown envelope kind %q", env.Kind)
	}
}

func (c *Conn) deliver(ctx context.Context, raw json.RawMessage) {
	var p MutationParams
	if err := json.Unmarshal(raw, &p); err != nil {
		c.logger.Warn(ctx, "Bad mutations event: %v", err)
		return
	}
	c.mu.Lock()
	sub, ok := c.subs[p.Subscription]
	c.mu.Unlock()
	if !ok {
		return
	}
	if !sub.push(p.Records) {
		c.mu.Lock()
		delete(c.subs, p.Subscription)
		c.mu.Unlock()
		c.logger.Warn(ctx, "Subscription %s overflowed after %d batches", p.Subscription, recordBuffer)
	}
}

func (c *Conn) getHandler() Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler
}

// shutdown fails every pending call and ends every subscription.
func (c *Conn) shutdown(err error) {
	c.mu.Lock()
	if err == nil {
		err = ErrClosed
	}
	c.err = err
	pending := c.pending
	c.pending = make(map[string]chan Envelope)
	subs := c.subs
	c.subs = make(map[string]*subscription)
	c.abandoned = make(map[string]struct{})
	close(c.closed)
	c.mu.Unlock()

	for id, ch := range pending {
		ch <- Envelope{Kind: KindResult, ID: id, Error: ErrClosed.Error()}
	}
	for _, s := range subs {
		s.close()
	}
	c.ws.Close()
}

// call sends op to the page and decodes the result into out (which may be nil).
func (c *Conn) call(ctx context.Context, op string, params, out any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode %s params: %w", op, err)
	}

	ch := make(chan Envelope, 1)
	c.mu.Lock()
	select {
	case <-c.closed:
		c.mu.Unlock()
		return ErrClosed
	default:
	}
	c.seq++
	id := strconv.FormatUint(c.seq, 10)
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.write(Envelope{Kind: KindCall, ID: id, Op: op, Params: raw}); err != nil {
		c.forget(id)
		return fmt.Errorf("send %s: %w", op, err)
	}

	select {
	case <-ctx.Done():
		if op == OpObserve {
			c.abandonObserve(id, ch)
		} else {
			c.forget(id)
		}
		return ctx.Err()
	case res := <-ch:
		if res.Error != "" {
			if res.Error == ErrClosed.Error() {
				return ErrClosed
			}
			return fmt.Errorf("%s: %s", op, res.Error)
		}
		if out == nil || len(res.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(res.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", op, err)
		}
		return nil
	}
}

func (c *Conn) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// abandonObserve forgets an observe call its caller gave up on. The page may still create
// the observer, so a result that arrives later is answered with a disconnect.
func (c *Conn) abandonObserve(id string, ch chan Envelope) {
	c.mu.Lock()
	_, waiting := c.pending[id]
	delete(c.pending, id)
	if waiting {
		c.abandoned[id] = struct{}{}
	}
	c.mu.Unlock()
	if !waiting {
		// dispatch or shutdown already took the entry and sends on ch.
		go c.releaseObserver(<-ch)
	}
}

// releaseObserver disconnects the observer named in an observe result nobody waits for.
func (c *Conn) releaseObserver(env Envelope) {
	if env.Error != "" {
		return
	}
	var res observeResult
	if err := json.Unmarshal(env.Result, &res); err != nil || res.Subscription == "" {
		return
	}
	ctx := context.Background()
	err := c.call(ctx, OpDisconnect, disconnectParams{Subscription: res.Subscription}, nil)
	if err != nil && !stderrors.Is(err, ErrClosed) {
		c.logger.Warn(ctx, "Disconnect orphaned observer %s: %v", res.Subscription, err)
		return
	}
	c.logger.Debug(ctx, "Disconnected orphaned observer %s", res.Subscription)
}

func (c *Conn) reply(id string, res any, callErr error) error {
	env := Envelope{Kind: KindResult, ID: id}
	if callErr != nil {
		env.Error = callErr.Error()
	} else if res != nil {
		raw, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		env.Result = raw
	}
	return c.write(env)
}

func (c *Conn) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(env)
}
