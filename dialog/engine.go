package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/spendbot/core/logger"
)

// User-facing strings shared by every flow.
const (
	AlreadyActiveText = "A command is already active. Type /cancel to stop the current task."
	CanceledText      = "Current task canceled. You can now start a new command."
	DefaultFailText   = "Failed to complete the task. Please try again later."
)

// Engine drives registered dialog definitions.
type Engine struct {
	sessions *Sessions
	defs     map[string]Definition
	send     Sender
}

func NewEngine(send Sender) *Engine {
	return &Engine{
		sessions: NewSessions(),
		defs:     make(map[string]Definition),
		send:     send,
	}
}

// Register adds a definition. Registering after startup is not supported.
func (e *Engine) Register(def Definition) error {
	if def.Kind == "" {
		return errors.New("dialog: definition without kind")
	}
	if _, ok := def.Steps[def.Start]; !ok {
		return fmt.Errorf("dialog %q: start state %q has no step", def.Kind, def.Start)
	}
	if _, dup := e.defs[def.Kind]; dup {
		return fmt.Errorf("dialog %q: registered twice", def.Kind)
	}
	if def.FailText == "" {
		def.FailText = DefaultFailText
	}
	e.defs[def.Kind] = def
	return nil
}

// InProgress reports whether the user has an active dialog.
func (e *Engine) InProgress(userID int64) bool {
	return e.sessions.InProgress(userID)
}

// Start begins the named dialog for the user. When another dialog is active
// the user is told to /cancel first and no session is created.
func (e *Engine) Start(ctx context.Context, userID int64, kind string) error {
	def, ok := e.defs[kind]
	if !ok {
		return fmt.Errorf("dialog: unknown kind %q", kind)
	}

	lock := e.sessions.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := e.sessions.Begin(userID, kind, def.Start)
	if errors.Is(err, ErrActive) {
		logger.Debug(ctx, "dialog", "dialog.blocked",
			slog.Int64("user_id", userID),
			slog.String("dialog", kind),
		)
		return e.send(ctx, userID, Reply{Text: AlreadyActiveText})
	}
	if err != nil {
		return err
	}

	logger.Info(ctx, "dialog", "dialog.start",
		slog.Int64("user_id", userID),
		slog.String("dialog", kind),
		slog.String("state", string(def.Start)),
	)
	return e.send(ctx, userID, def.Steps[def.Start].Prompt(ctx, sess))
}

// HandleText feeds a plain text message into the user's active dialog. The
// boolean reports whether a dialog consumed the message; false means the
// caller should route it elsewhere.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) (bool, error) {
	lock := e.sessions.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess, ok := e.sessions.Get(userID)
	if !ok {
		return false, nil
	}
	def := e.defs[sess.Kind]
	step, ok := def.Steps[sess.State]
	if !ok {
		// A definition bug, not user error. Close the session so the user
		// is not stuck.
		e.sessions.End(userID)
		return true, fmt.Errorf("dialog %q: no step for state %q", sess.Kind, sess.State)
	}

	t, err := step.Handle(ctx, sess, strings.TrimSpace(text))
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			logger.Debug(ctx, "dialog", "dialog.invalid_input",
				slog.Int64("user_id", userID),
				slog.String("dialog", sess.Kind),
				slog.String("state", string(sess.State)),
			)
			return true, e.send(ctx, userID, Reply{Text: verr.Message, Options: verr.Options})
		}
		logger.Error(ctx, "dialog", "dialog.step",
			slog.Int64("user_id", userID),
			slog.String("dialog", sess.Kind),
			slog.String("state", string(sess.State)),
			slog.String("err", err.Error()),
		)
		e.sessions.End(userID)
		return true, e.send(ctx, userID, Reply{Text: def.FailText})
	}

	if t.Next == End {
		return true, e.finish(ctx, def, sess, t.Reply)
	}

	if _, ok := def.Steps[t.Next]; !ok {
		e.sessions.End(userID)
		return true, fmt.Errorf("dialog %q: transition to unknown state %q", sess.Kind, t.Next)
	}
	sess.State = t.Next
	logger.Debug(ctx, "dialog", "dialog.advance",
		slog.Int64("user_id", userID),
		slog.String("dialog", sess.Kind),
		slog.String("state", string(t.Next)),
	)
	if t.Reply != nil {
		return true, e.send(ctx, userID, *t.Reply)
	}
	return true, e.send(ctx, userID, def.Steps[t.Next].Prompt(ctx, sess))
}

func (e *Engine) finish(ctx context.Context, def Definition, sess *Session, reply *Reply) error {
	defer e.sessions.End(sess.UserID)

	out := Reply{}
	switch {
	case reply != nil:
		out = *reply
	case def.Finalize != nil:
		var err error
		out, err = def.Finalize(ctx, sess)
		if err != nil {
			logger.Error(ctx, "dialog", "dialog.finalize",
				slog.Int64("user_id", sess.UserID),
				slog.String("dialog", sess.Kind),
				slog.String("err", err.Error()),
			)
			return e.send(ctx, sess.UserID, Reply{Text: def.FailText})
		}
	default:
		return nil
	}

	logger.Info(ctx, "dialog", "dialog.finish",
		slog.Int64("user_id", sess.UserID),
		slog.String("dialog", sess.Kind),
		slog.String("outcome", "ok"),
	)
	return e.send(ctx, sess.UserID, out)
}

// Cancel ends any active dialog and confirms, whether or not one was running.
func (e *Engine) Cancel(ctx context.Context, userID int64) error {
	lock := e.sessions.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if sess, ok := e.sessions.Get(userID); ok {
		logger.Info(ctx, "dialog", "dialog.cancel",
			slog.Int64("user_id", userID),
			slog.String("dialog", sess.Kind),
			slog.String("state", string(sess.State)),
		)
	}
	e.sessions.End(userID)
	return e.send(ctx, userID, Reply{Text: CanceledText})
}
