// Package realtime keeps one reconnecting WebSocket connection to the sensor
// endpoint, decodes inbound frames and fans them out to listeners.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"incubation_tracker/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	DefaultURL                  = "ws://localhost:8080"
	DefaultMaxReconnectAttempts = 5
	DefaultReconnectDelay       = 3 * time.Second

	DefaultPongWait = 60 * time.Second

	defaultHandshakeTimeout = 10 * time.Second
	writeWait               = 10 * time.Second
	maxMsgSize              = 1 << 16 // 64 KB
	frameQueueSize          = 64
)

var (
	// ErrNotConnected is returned by Send when the connection is not open.
	ErrNotConnected = errors.New("realtime: not connected")
	// ErrAlreadyActive is returned by Connect while connecting or open.
	ErrAlreadyActive = errors.New("realtime: connection already active")
	// ErrInvalidURL wraps every URL validation failure.
	ErrInvalidURL = errors.New("realtime: invalid url")
)

// Dialer opens the transport. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Config tunes the reconnect policy.
type Config struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
	HandshakeTimeout     time.Duration
	// PongWait is how long the connection may stay silent before it is
	// treated as dead. PingPeriod defaults to 9/10 of it.
	PongWait   time.Duration
	PingPeriod time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxReconnectAttempts < 0 {
		c.MaxReconnectAttempts = 0
	}
	if c.ReconnectDelay < 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = defaultHandshakeTimeout
	}
	if c.PongWait <= 0 {
		c.PongWait = DefaultPongWait
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = c.PongWait * 9 / 10
	}
	return c
}

// DefaultConfig is 5 attempts, 3 s apart.
func DefaultConfig() Config {
	return Config{
		MaxReconnectAttempts: DefaultMaxReconnectAttempts,
		ReconnectDelay:       DefaultReconnectDelay,
		HandshakeTimeout:     defaultHandshakeTimeout,
	}
}

// Option customizes a Client.
type Option func(*Client)

// WithDialer replaces the default gorilla dialer.
func WithDialer(d Dialer) Option { return func(c *Client) { c.dialer = d } }

// WithDisplay routes decoded readings to d.
func WithDisplay(d Display) Option { return func(c *Client) { c.display = d } }

// WithNotifier routes inbound alerts to n.
func WithNotifier(n Notifier) Option { return func(c *Client) { c.notifier = n } }

// WithStatusIndicator receives every connection status change.
func WithStatusIndicator(f func(Status)) Option { return func(c *Client) { c.indicator = f } }

func WithLogger(l *logger.Logger) Option { return func(c *Client) { c.log = logger.OrNop(l) } }

func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

// Client owns at most one live connection.
//
// State machine: Idle -> Connecting -> Open -> Closed, and Closed -> Connecting
// while the reconnect budget lasts. The attempt counter is reset on open and
// incremented only when a scheduled reconnect fires.
type Client struct {
	Events

	cfg       Config
	dialer    Dialer
	display   Display
	notifier  Notifier
	indicator func(Status)
	now       func() time.Time
	log       *logger.Logger

	mu          sync.Mutex
	state       State
	url         string
	conn        *websocket.Conn
	attempts    int
	intentional bool
	retry       *time.Timer

	writeMu sync.Mutex
}

// NewClient builds an idle client.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg.withDefaults(),
		dialer: &websocket.Dialer{Proxy: http.ProxyFromEnvironment},
		now:    time.Now,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen reports whether the transport is open.
func (c *Client) IsOpen() bool { return c.State() == StateOpen }

// URL returns the last URL passed to Connect.
func (c *Client) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}

// Attempts returns the reconnect attempts used since the last open.
func (c *Client) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Connect starts connecting to rawURL (DefaultURL when empty) in the background.
// It is a no-op returning ErrAlreadyActive while connecting or open. An invalid
// URL is reported through the status indicator and returned; it does not panic
// and does not schedule a reconnect.
func (c *Client) Connect(rawURL string) error {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	if err := ValidateURL(rawURL); err != nil {
		c.log.Errorw("realtime_invalid_url", "url", rawURL, "err", err)
		c.setStatus(StatusError)
		return err
	}

	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateOpen {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	c.stopRetryLocked()
	c.url = rawURL
	c.intentional = false
	c.state = StateConnecting
	c.mu.Unlock()

	go c.run(rawURL)
	return nil
}

// Reconnect resets the attempt counter, then connects. Use it to recover from
// the exhausted state or after Disconnect.
func (c *Client) Reconnect(rawURL string) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateOpen {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	c.attempts = 0
	if rawURL == "" {
		rawURL = c.url
	}
	c.mu.Unlock()
	return c.Connect(rawURL)
}

// Disconnect closes the connection and suppresses automatic reconnection,
// including a reconnect that is already scheduled. Safe in any state.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.intentional = true
	c.stopRetryLocked()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client disconnect")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	// unblocks the read loop, which runs the close path
	_ = conn.Close()
}

// Send writes v as a JSON text frame. Nothing is queued: when the connection
// is not open the frame is dropped and ErrNotConnected returned.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	conn, open := c.conn, c.state == StateOpen
	c.mu.Unlock()

	if !open || conn == nil {
		c.log.Warnw("realtime_send_dropped", "reason", "not connected")
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(v); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// SendCommand sends {command, timestamp, ...data}.
func (c *Client) SendCommand(command string, data map[string]any) error {
	if err := c.Send(NewEnvelope(command, data, c.now())); err != nil {
		return fmt.Errorf("send command %q: %w", command, err)
	}
	return nil
}

// run dials and, on success, reads until the transport closes.
func (c *Client) run(rawURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.HandshakeTimeout)
	conn, _, err := c.dialer.DialContext(ctx, rawURL, nil)
	cancel()
	if err != nil {
		c.log.Warnw("realtime_dial_failed", "url", rawURL, "err", err)
		c.fail(rawURL, err)
		c.closed(CloseEvent{URL: rawURL, Code: websocket.CloseAbnormalClosure, Reason: err.Error()})
		return
	}

	c.mu.Lock()
	if c.intentional {
		// Disconnect arrived while dialing.
		c.mu.Unlock()
		_ = conn.Close()
		c.closed(CloseEvent{URL: rawURL, Code: websocket.CloseNormalClosure, Reason: "client disconnect"})
		return
	}
	c.conn = conn
	c.state = StateOpen
	c.attempts = 0
	c.mu.Unlock()

	c.setStatus(StatusConnected)
	c.log.Infow("realtime_connected", "url", rawURL)
	c.open.emit(OpenEvent{URL: rawURL, At: c.now()}, c.listenerPanic)

	c.readLoop(rawURL, conn)
}

// readLoop reads until the transport fails or stays silent past PongWait.
// Frames are handled in order on a separate goroutine; the close path runs
// after every queued frame was handled.
func (c *Client) readLoop(rawURL string, conn *websocket.Conn) {
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	frames := make(chan []byte, frameQueueSize)
	handled := make(chan struct{})
	go func() {
		defer close(handled)
		for frame := range frames {
			c.handleFrame(frame)
		}
	}()

	stopPing := make(chan struct{})
	go c.pingLoop(conn, stopPing)

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			close(stopPing)
			close(frames)
			<-handled

			code, reason := closeDetails(err)
			c.mu.Lock()
			intentional := c.intentional
			c.mu.Unlock()
			if !intentional && isTransportFailure(err) {
				c.fail(rawURL, err)
			}
			_ = conn.Close()
			c.closed(CloseEvent{URL: rawURL, Code: code, Reason: reason})
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))

		select {
		case frames <- frame:
		default:
			c.log.Warnw("realtime_frame_dropped", "reason", "handler backlog", "queued", frameQueueSize)
		}
	}
}

// pingLoop keeps the read deadline alive on a healthy peer. A failed ping
// closes the connection, which ends the read loop.
func (c *Client) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.log.Debugw("realtime_ping_failed", "err", err)
				_ = conn.Close()
				return
			}
		}
	}
}

func (c *Client) handleFrame(frame []byte) {
	msg, err := DecodeMessage(frame)
	if err != nil {
		c.log.Warnw("realtime_decode_failed", "err", err, "bytes", len(frame))
		return
	}
	c.message.emit(msg, c.listenerPanic)
	Dispatch(msg, c.display, c.notifier)
}

// fail reports a transport error. It never changes state.
func (c *Client) fail(rawURL string, err error) {
	c.setStatus(StatusError)
	c.errs.emit(ErrorEvent{URL: rawURL, Err: err}, c.listenerPanic)
}

// closed runs the close path: status, close listeners, then either a
// scheduled reconnect or the terminal exhausted event.
func (c *Client) closed(ev CloseEvent) {
	c.mu.Lock()
	c.conn = nil
	c.state = StateClosed
	ev.Intentional = c.intentional
	ev.Attempts = c.attempts
	ev.WillRetry = !c.intentional && c.attempts < c.cfg.MaxReconnectAttempts
	c.mu.Unlock()

	c.setStatus(StatusDisconnected)
	c.log.Infow("realtime_closed", "url", ev.URL, "code", ev.Code, "attempts", ev.Attempts, "will_retry", ev.WillRetry)
	c.close.emit(ev, c.listenerPanic)

	if ev.Intentional {
		return
	}
	if !ev.WillRetry {
		c.log.Warnw("realtime_reconnect_exhausted", "url", ev.URL, "attempts", ev.Attempts)
		c.exhausted.emit(ExhaustedEvent{URL: ev.URL, Attempts: ev.Attempts}, c.listenerPanic)
		return
	}

	c.mu.Lock()
	if !c.intentional && c.state == StateClosed && c.retry == nil {
		c.retry = time.AfterFunc(c.cfg.ReconnectDelay, func() { c.retryConnect(ev.URL) })
	}
	c.mu.Unlock()
}

// retryConnect fires from the reconnect timer.
func (c *Client) retryConnect(rawURL string) {
	c.mu.Lock()
	c.retry = nil
	if c.intentional || c.state != StateClosed {
		c.mu.Unlock()
		return
	}
	c.attempts++
	attempt := c.attempts
	c.state = StateConnecting
	c.mu.Unlock()

	c.log.Infow("realtime_reconnecting", "url", rawURL, "attempt", attempt, "max", c.cfg.MaxReconnectAttempts)
	c.run(rawURL)
}

func (c *Client) stopRetryLocked() {
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
}

func (c *Client) setStatus(s Status) {
	if c.indicator != nil {
		c.indicator(s)
	}
}

func (c *Client) listenerPanic(id Subscription, r any) {
	c.log.Errorw("realtime_listener_panic", "subscription", id, "panic", r)
}

// ValidateURL accepts absolute ws:// and wss:// URLs with a host. Errors wrap
// ErrInvalidURL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%w: unsupported scheme %q, want ws or wss", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

// isTransportFailure reports read errors other than a clean close from the peer.
func isTransportFailure(err error) bool {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func closeDetails(err error) (int, string) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text
	}
	return websocket.CloseAbnormalClosure, err.Error()
}
