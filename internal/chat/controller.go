// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the request lifecycle of a LegiChat exchange.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/api"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/signal"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/storage"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/util"
)

// Notices written into the assistant placeholder.
const (
	FailureNotice      = "Désolé, une erreur s'est produite. Veuillez réessayer."
	CancellationNotice = "Génération interrompue."
)

// PreviewLength is the number of characters kept as the conversation preview.
const PreviewLength = 50

var (
	// ErrNoActiveConversation is returned by Send when nothing is active.
	ErrNoActiveConversation = errors.New("no active conversation")

	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy is returned while a reply is pending.
	ErrBusy = errors.New("a reply is already being generated")

	// ErrNotUserMessage is returned by Edit for messages not written by the user.
	ErrNotUserMessage = errors.New("only user messages can be edited")

	// ErrMessageNotFound is returned by Edit for unknown message ids.
	ErrMessageNotFound = errors.New("message not found")
)

// =============================================================================
// STATE
// =============================================================================

// State is the controller state.
type State int

const (
	StateIdle State = iota
	StateAwaitingReply
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	default:
		return "unknown"
	}
}

// Outcome reports what Resolve did with a result.
type Outcome int

const (
	OutcomeDropped Outcome = iota
	OutcomeReplied
	OutcomeFailed
	OutcomeCancelled
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeReplied:
		return "replied"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "dropped"
	}
}

// =============================================================================
// EXCHANGE
// =============================================================================

// Exchange is one pending request. Run may be called from any goroutine.
type Exchange struct {
	ConversationID string
	UserMessageID  string
	PlaceholderID  string
	Text           string

	ctx    context.Context
	client api.Client
}

// Result is the completion of an Exchange, handed back to Resolve.
type Result struct {
	Exchange *Exchange
	Reply    *model.Message
	Err      error
}

// Run calls the answer client and packages the outcome. It touches no store.
func (e *Exchange) Run() Result {
	reply, err := e.client.Submit(e.ctx, e.ConversationID, e.Text)
	if err == nil && reply == nil {
		err = api.ErrEmptyResponse
	}
	return Result{Exchange: e, Reply: reply, Err: err}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller orchestrates the stores and the answer client.
type Controller struct {
	conversations *storage.ConversationStore
	messages      *storage.MessageStore
	client        api.Client

	state  *signal.Signal[State]
	cancel *cancelHandle

	mu      sync.Mutex
	base    context.Context
	current *Exchange
}

// New creates an idle controller.
func New(conversations *storage.ConversationStore, messages *storage.MessageStore, client api.Client) *Controller {
	return &Controller{
		conversations: conversations,
		messages:      messages,
		client:        client,
		state:         signal.New(StateIdle),
		cancel:        newCancelHandle(),
		base:          context.Background(),
	}
}

// WithBaseContext sets the parent context of every exchange started by Send.
func (c *Controller) WithBaseContext(ctx context.Context) *Controller {
	c.mu.Lock()
	c.base = ctx
	c.mu.Unlock()
	return c
}

// State returns the reactive controller state.
func (c *Controller) State() signal.Readable[State] {
	return c.state
}

// IsGenerating reports whether a reply is pending. The input is disabled while true.
func (c *Controller) IsGenerating() bool {
	return c.state.Get() == StateAwaitingReply
}

// Pending returns the in-flight exchange, or nil.
func (c *Controller) Pending() *Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Send records the user message and the loading placeholder, enters
// AwaitingReply and returns the exchange to run.
func (c *Controller) Send(text string) (*Exchange, error) {
	c.mu.Lock()
	parent := c.base
	c.mu.Unlock()
	return c.send(parent, text)
}

func (c *Controller) send(parent context.Context, text string) (*Exchange, error) {
	conv := c.conversations.Active()
	if conv == nil {
		return nil, ErrNoActiveConversation
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if c.IsGenerating() {
		return nil, ErrBusy
	}

	userMsg := c.messages.Add(conv.ID, text, model.RoleUser)
	if c.messages.CountForConversation(conv.ID) == 1 {
		c.conversations.UpdatePreview(conv.ID, util.FirstRunes(text, PreviewLength))
	} else {
		c.conversations.Touch(conv.ID)
	}

	placeholder := c.messages.Add(conv.ID, "", model.RoleAssistant)
	c.messages.SetLoading(placeholder.ID, true)

	ctx, cancel := context.WithCancel(parent)
	ex := &Exchange{
		ConversationID: conv.ID,
		UserMessageID:  userMsg.ID,
		PlaceholderID:  placeholder.ID,
		Text:           text,
		ctx:            ctx,
		client:         c.client,
	}

	c.mu.Lock()
	c.current = ex
	c.mu.Unlock()
	c.cancel.set(cancel)
	c.state.Set(StateAwaitingReply)

	return ex, nil
}

// Resolve applies a finished exchange. Results from a stopped or superseded
// exchange are dropped. Failures are written as notices and logged, never returned.
func (c *Controller) Resolve(res Result) Outcome {
	c.mu.Lock()
	if res.Exchange == nil || res.Exchange != c.current {
		c.mu.Unlock()
		log.Printf("chat: dropping stale result")
		return OutcomeDropped
	}
	c.current = nil
	c.mu.Unlock()

	ex := res.Exchange
	outcome := OutcomeReplied
	if res.Err == nil && res.Reply == nil {
		res.Err = api.ErrEmptyResponse
	}

	switch {
	case res.Err == nil:
		c.messages.UpdateFromPartial(ex.PlaceholderID, model.MessagePatch{
			Content:   model.Ptr(res.Reply.Content),
			Metadata:  res.Reply.Metadata,
			IsLoading: model.Ptr(false),
		})
	case api.IsCancellation(res.Err):
		outcome = OutcomeCancelled
		c.messages.Update(ex.PlaceholderID, CancellationNotice)
	default:
		outcome = OutcomeFailed
		log.Printf("ERROR chat: answer request failed: %v", res.Err)
		c.messages.Update(ex.PlaceholderID, FailureNotice)
	}

	c.messages.SetLoading(ex.PlaceholderID, false)
	c.cancel.cancel()
	c.state.Set(StateIdle)
	return outcome
}

// Stop cancels the pending exchange and writes the cancellation notice.
// It reports whether anything was stopped; outside AwaitingReply it is a no-op.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	ex := c.current
	c.current = nil
	c.mu.Unlock()

	if ex == nil || !c.IsGenerating() {
		return false
	}

	c.cancel.cancel()
	c.messages.Update(ex.PlaceholderID, CancellationNotice)
	c.messages.SetLoading(ex.PlaceholderID, false)
	c.state.Set(StateIdle)
	log.Printf("chat: generation stopped for %s", ex.ConversationID)
	return true
}

// StopFor stops the pending exchange when it belongs to conversationID.
// Called before a conversation is deleted so its reply cannot keep the input locked.
func (c *Controller) StopFor(conversationID string) bool {
	ex := c.Pending()
	if ex == nil || ex.ConversationID != conversationID {
		return false
	}
	return c.Stop()
}

// Edit replaces a user message: it removes the message and the assistant
// reply directly after it, then sends newText. A pending exchange is stopped first.
func (c *Controller) Edit(messageID, newText string) (*Exchange, error) {
	msg, ok := c.messages.Get(messageID)
	if !ok {
		return nil, ErrMessageNotFound
	}
	if !msg.IsUser() {
		return nil, ErrNotUserMessage
	}
	if strings.TrimSpace(newText) == "" {
		return nil, ErrEmptyMessage
	}

	c.Stop()

	thread := c.messages.ListForConversation(msg.ConversationID)
	for i, m := range thread {
		if m.ID != messageID {
			continue
		}
		c.messages.DeleteOne(m.ID)
		if i+1 < len(thread) && thread[i+1].IsAssistant() {
			c.messages.DeleteOne(thread[i+1].ID)
		}
		break
	}

	c.conversations.SetActive(msg.ConversationID)
	return c.Send(newText)
}

// LastUserMessage returns the most recent user message of the active conversation.
func (c *Controller) LastUserMessage() (*model.Message, bool) {
	return c.lastWithRole(model.RoleUser)
}

// LastReply returns the most recent assistant message of the active conversation.
func (c *Controller) LastReply() (*model.Message, bool) {
	return c.lastWithRole(model.RoleAssistant)
}

func (c *Controller) lastWithRole(role model.Role) (*model.Message, bool) {
	id := c.conversations.ActiveID()
	if id == "" {
		return nil, false
	}
	thread := c.messages.ListForConversation(id)
	for i := len(thread) - 1; i >= 0; i-- {
		if thread[i].Role == role {
			return thread[i], true
		}
	}
	return nil, false
}

// SendAndWait runs a full exchange synchronously. It is meant for headless
// use; cancelling ctx cancels the request.
func (c *Controller) SendAndWait(ctx context.Context, text string) (*model.Message, Outcome, error) {
	ex, err := c.send(ctx, text)
	if err != nil {
		return nil, OutcomeDropped, err
	}

	outcome := c.Resolve(ex.Run())
	reply, _ := c.messages.Get(ex.PlaceholderID)
	return reply, outcome, nil
}
