package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Fixed replies shown in the chat when the model cannot give a real answer.
const (
	QuietReply   = "Our creative circuits are momentarily quiet. Please try again soon."
	ApologyReply = "The digital ether is busy right now. Let's talk strategy in a moment."
)

// StrategistInstruction is the persona the strategist chat runs under.
const StrategistInstruction = "You are the Lead Strategist at Nexus Creative, a premium marketing agency. " +
	"You provide concise, brilliant, and sophisticated marketing advice. " +
	"Your tone is professional, futuristic, and encouraging. Keep responses under 100 words. " +
	"You are speaking with a potential client or a curious professional."

var ErrMissingCredential = errors.New("gemini api key is not configured")

// ChatConfig is the fixed configuration a chat handle is opened with.
type ChatConfig struct {
	Model             string
	SystemInstruction string
	Temperature       float32
}

// ChatHandle is one open conversation context with the remote model.
type ChatHandle interface {
	Send(ctx context.Context, text string) (string, error)
	Close() error
}

// ChatOpener opens chat handles against a remote model.
type ChatOpener interface {
	OpenChat(ctx context.Context, cfg ChatConfig) (ChatHandle, error)
}

// HandleState tracks the advice client's chat handle.
type HandleState int

const (
	HandleUninitialized HandleState = iota
	HandleReady
	HandleFailed
)

func (s HandleState) String() string {
	switch s {
	case HandleUninitialized:
		return "uninitialized"
	case HandleReady:
		return "ready"
	case HandleFailed:
		return "failed"
	default:
		return fmt.Sprintf("HandleState(%d)", int(s))
	}
}

type AdvisorConfig struct {
	ChatConfig
	// Timeout bounds one open+send round trip. Zero disables it.
	Timeout time.Duration
}

func DefaultAdvisorConfig() AdvisorConfig {
	return AdvisorConfig{
		ChatConfig: ChatConfig{
			Model:             "gemini-3-flash-preview",
			SystemInstruction: StrategistInstruction,
			Temperature:       0.8,
		},
		Timeout: 30 * time.Second,
	}
}

// NewAdvisorConfig starts from the defaults and overrides whatever is set.
// The persona instruction is fixed.
func NewAdvisorConfig(model string, temperature float32, timeout time.Duration) AdvisorConfig {
	cfg := DefaultAdvisorConfig()
	if model != "" {
		cfg.Model = model
	}
	if temperature > 0 {
		cfg.Temperature = temperature
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg
}

// AdviceClient turns visitor prompts into strategist replies. It owns at most
// one chat handle and drops it on any failure, so the next call starts a
// fresh remote conversation.
type AdviceClient struct {
	opener ChatOpener
	cfg    AdvisorConfig

	// Single slot; holding it grants access to state and handle.
	slot   chan struct{}
	state  HandleState
	handle ChatHandle
	closed bool
}

func NewAdviceClient(opener ChatOpener, cfg AdvisorConfig) *AdviceClient {
	slot := make(chan struct{}, 1)
	slot <- struct{}{}

	return &AdviceClient{
		opener: opener,
		cfg:    cfg,
		slot:   slot,
		state:  HandleUninitialized,
	}
}

func (c *AdviceClient) acquire(ctx context.Context) error {
	select {
	case <-c.slot:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *AdviceClient) release() {
	c.slot <- struct{}{}
}

// GetAdvice never fails outward. Errors become ApologyReply, blank model
// output becomes QuietReply.
func (c *AdviceClient) GetAdvice(ctx context.Context, prompt string) string {
	if err := c.acquire(ctx); err != nil {
		// Never reached the model, so the handle is left alone.
		log.WithError(err).Warn("advice request abandoned while queued")
		return ApologyReply
	}
	defer c.release()

	if c.closed {
		log.Debug("advice requested on a closed client")
		return ApologyReply
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	if c.state != HandleReady {
		handle, err := c.opener.OpenChat(ctx, c.cfg.ChatConfig)
		if err != nil {
			c.fail("setup", err)
			return ApologyReply
		}
		c.handle = handle
		c.state = HandleReady
	}

	reply, err := c.handle.Send(ctx, prompt)
	if err != nil {
		c.fail("send", err)
		return ApologyReply
	}

	if strings.TrimSpace(reply) == "" {
		return QuietReply
	}
	return reply
}

// fail drops the handle. Must hold the slot.
func (c *AdviceClient) fail(stage string, err error) {
	log.WithFields(log.Fields{
		"stage": stage,
		"model": c.cfg.Model,
	}).WithError(err).Warn("advice request failed, resetting chat")

	if c.handle != nil {
		if cerr := c.handle.Close(); cerr != nil {
			log.WithError(cerr).Debug("closing failed chat handle")
		}
	}
	c.handle = nil
	c.state = HandleFailed
}

// State reports the handle state. It waits for any in-flight request.
func (c *AdviceClient) State() HandleState {
	<-c.slot
	defer c.release()
	return c.state
}

// Close releases the handle. A closed client never opens another one and
// answers every later call with ApologyReply.
func (c *AdviceClient) Close() error {
	<-c.slot
	defer c.release()

	c.closed = true
	if c.handle == nil {
		return nil
	}
	err := c.handle.Close()
	c.handle = nil
	c.state = HandleUninitialized
	return err
}
