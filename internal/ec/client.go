package ec

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Poll limits for the command protocol. The EC answers a query within
// about 120us; the delay between polls matches the pacing its firmware
// expects.
const (
	busyPollLimit   = 0x1000
	answerPollLimit = 100
	regDelay        = 500 * time.Microsecond
)

var (
	errBusy     = errors.New("input buffer stayed full")
	errNoAnswer = errors.New("no answer byte")
)

// Client drives a KB3310B over a port backend. It is safe for
// concurrent use; every register access and every query is one
// atomic port transaction.
type Client struct {
	mu    sync.Mutex
	ports PortIO
	sleep func(time.Duration)
}

// ClientOption customises a Client for tests.
type ClientOption func(*Client)

// WithSleep overrides the delay function used between command polls.
func WithSleep(sleep func(time.Duration)) ClientOption {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewClient wraps an opened port backend.
func NewClient(ports PortIO, opts ...ClientOption) *Client {
	c := &Client{ports: ports, sleep: time.Sleep}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadReg reads one byte from the EC index space.
func (c *Client) ReadReg(reg Reg) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outb(portIndexHigh, byte(reg>>8))
	c.outb(portIndexLow, byte(reg))
	return c.inb(portIndexData)
}

// WriteReg writes one byte into the EC index space.
func (c *Client) WriteReg(reg Reg, value byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outb(portIndexHigh, byte(reg>>8))
	c.outb(portIndexLow, byte(reg))
	c.outb(portIndexData, value)
}

// Version reads the firmware version string from the version window.
func (c *Client) Version() string {
	buf := make([]byte, VersionLength)
	for i := range buf {
		buf[i] = c.ReadReg(RegVersion + Reg(i))
	}
	s, _, _ := strings.Cut(string(buf), "\x00")
	s = strings.TrimRight(s, "\xff")
	return strings.TrimSpace(s)
}

// QueryEvent asks for the pending SCI event number and waits for the
// answer byte, with a bounded poll on both buffer flags.
func (c *Client) QueryEvent() (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sendCommand(cmdGetEventNum); err != nil {
		return 0, fmt.Errorf("ec: query: %w", err)
	}
	value, err := c.waitAnswer()
	if err != nil {
		return 0, fmt.Errorf("ec: query: %w", err)
	}
	return value, nil
}

// FlushEvent discards a possibly pending event query so a stale EC
// interrupt cannot fire once the SCI routing is armed. Unlike
// QueryEvent it succeeds when nothing was pending.
func (c *Client) FlushEvent() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.sendCommand(cmdGetEventNum); err != nil {
		return fmt.Errorf("ec: flush: %w", err)
	}
	if c.inb(portCommand)&statusOBF != 0 {
		c.inb(portData)
	}
	return nil
}

// Close releases the port backend.
func (c *Client) Close() error {
	return c.ports.Close()
}

func (c *Client) sendCommand(cmd byte) error {
	if err := c.waitNotBusy(); err != nil {
		return err
	}
	c.outb(portCommand, cmd)
	return c.waitNotBusy()
}

func (c *Client) waitNotBusy() error {
	for i := 0; i < busyPollLimit; i++ {
		if c.inb(portCommand)&statusIBF == 0 {
			return nil
		}
		c.sleep(regDelay)
	}
	return errBusy
}

func (c *Client) waitAnswer() (byte, error) {
	for i := 0; i < answerPollLimit; i++ {
		if c.inb(portCommand)&statusOBF != 0 {
			c.sleep(regDelay)
			return c.inb(portData), nil
		}
		c.sleep(regDelay)
	}
	return 0, errNoAnswer
}

func (c *Client) inb(port uint16) byte {
	value, err := c.ports.Inb(port)
	if err != nil {
		slog.Debug("ec: port read failed", "port", fmt.Sprintf("%#04x", port), "err", err)
	}
	return value
}

func (c *Client) outb(port uint16, value byte) {
	if err := c.ports.Outb(port, value); err != nil {
		slog.Debug("ec: port write failed", "port", fmt.Sprintf("%#04x", port), "err", err)
	}
}

var _ RegisterIO = (*Client)(nil)
var _ EventQuerier = (*Client)(nil)
