package dialog

import (
	"context"
	"errors"
	"testing"
)

type sentReply struct {
	userID int64
	reply  Reply
}

type recorder struct {
	sent []sentReply
}

func (r *recorder) sender() Sender {
	return func(_ context.Context, userID int64, reply Reply) error {
		r.sent = append(r.sent, sentReply{userID: userID, reply: reply})
		return nil
	}
}

func (r *recorder) last(t *testing.T) Reply {
	t.Helper()
	if len(r.sent) == 0 {
		t.Fatal("no replies sent")
	}
	return r.sent[len(r.sent)-1].reply
}

// twoStepDef asks for a name, then a color, then finalizes.
func twoStepDef() Definition {
	return Definition{
		Kind:  "paint",
		Start: "name",
		Steps: map[State]Step{
			"name": {
				Prompt: func(context.Context, *Session) Reply {
					return Reply{Text: "Enter a name:"}
				},
				Handle: func(_ context.Context, s *Session, input string) (Transition, error) {
					if input == "" {
						return Transition{}, Invalid("Name cannot be empty.")
					}
					s.Values["name"] = input
					return To("color"), nil
				},
			},
			"color": {
				Prompt: func(context.Context, *Session) Reply {
					return Reply{Text: "Pick a color:", Options: []string{"red", "blue"}}
				},
				Handle: func(_ context.Context, s *Session, input string) (Transition, error) {
					opt, ok := MatchOption(input, []string{"red", "blue"})
					if !ok {
						return Transition{}, InvalidChoice("Pick from the keyboard.", []string{"red", "blue"})
					}
					s.Values["color"] = opt
					return To(End), nil
				},
			},
		},
		Finalize: func(_ context.Context, s *Session) (Reply, error) {
			return Reply{Text: s.Values["name"] + " is " + s.Values["color"]}, nil
		},
	}
}

func newTestEngine(t *testing.T, def Definition) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	e := NewEngine(rec.sender())
	if err := e.Register(def); err != nil {
		t.Fatal(err)
	}
	return e, rec
}

func TestEngineHappyPath(t *testing.T) {
	e, rec := newTestEngine(t, twoStepDef())
	ctx := context.Background()

	if err := e.Start(ctx, 1, "paint"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Text; got != "Enter a name:" {
		t.Errorf("start prompt = %q", got)
	}

	if _, err := e.HandleText(ctx, 1, "wall"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t); got.Text != "Pick a color:" || len(got.Options) != 2 {
		t.Errorf("second prompt = %+v", got)
	}

	if _, err := e.HandleText(ctx, 1, "RED"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Text; got != "wall is red" {
		t.Errorf("final reply = %q", got)
	}
	if e.InProgress(1) {
		t.Error("session should be closed after finalize")
	}
}

func TestEngineInvalidInputKeepsState(t *testing.T) {
	e, rec := newTestEngine(t, twoStepDef())
	ctx := context.Background()

	if err := e.Start(ctx, 1, "paint"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.HandleText(ctx, 1, "wall"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.HandleText(ctx, 1, "green"); err != nil {
		t.Fatal(err)
	}
	got := rec.last(t)
	if got.Text != "Pick from the keyboard." || len(got.Options) != 2 {
		t.Errorf("validation reply = %+v", got)
	}
	// Still on the color step.
	if _, err := e.HandleText(ctx, 1, "blue"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Text; got != "wall is blue" {
		t.Errorf("final reply = %q", got)
	}
}

func TestEngineSecondStartBlocked(t *testing.T) {
	e, rec := newTestEngine(t, twoStepDef())
	ctx := context.Background()

	if err := e.Start(ctx, 1, "paint"); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(ctx, 1, "paint"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Text; got != AlreadyActiveText {
		t.Errorf("blocked reply = %q", got)
	}
	// Original session still answers.
	if _, err := e.HandleText(ctx, 1, "wall"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Text; got != "Pick a color:" {
		t.Errorf("reply = %q", got)
	}
}

func TestEngineCancelIdempotent(t *testing.T) {
	e, rec := newTestEngine(t, twoStepDef())
	ctx := context.Background()

	if err := e.Cancel(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Text; got != CanceledText {
		t.Errorf("cancel reply = %q", got)
	}

	if err := e.Start(ctx, 1, "paint"); err != nil {
		t.Fatal(err)
	}
	if err := e.Cancel(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if e.InProgress(1) {
		t.Error("cancel should end the session")
	}
	// A new dialog can start immediately.
	if err := e.Start(ctx, 1, "paint"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Text; got != "Enter a name:" {
		t.Errorf("restart prompt = %q", got)
	}
}

func TestEngineHandlerErrorEndsSession(t *testing.T) {
	def := twoStepDef()
	def.Steps["name"] = Step{
		Prompt: func(context.Context, *Session) Reply { return Reply{Text: "Enter a name:"} },
		Handle: func(context.Context, *Session, string) (Transition, error) {
			return Transition{}, errors.New("backend down")
		},
	}
	e, rec := newTestEngine(t, def)
	ctx := context.Background()

	if err := e.Start(ctx, 1, "paint"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.HandleText(ctx, 1, "wall"); err != nil {
		t.Fatal(err)
	}
	if got := rec.last(t).Text; got != DefaultFailText {
		t.Errorf("failure reply = %q", got)
	}
	if e.InProgress(1) {
		t.Error("session must end after a handler error")
	}
}

func TestEngineUnconsumedWithoutSession(t *testing.T) {
	e, _ := newTestEngine(t, twoStepDef())
	handled, err := e.HandleText(context.Background(), 7, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if handled {
		t.Error("text without a session must not be consumed")
	}
}

func TestEngineUsersAreIndependent(t *testing.T) {
	e, rec := newTestEngine(t, twoStepDef())
	ctx := context.Background()

	if err := e.Start(ctx, 1, "paint"); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(ctx, 2, "paint"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.HandleText(ctx, 1, "wall"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.HandleText(ctx, 2, "fence"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.HandleText(ctx, 1, "red"); err != nil {
		t.Fatal(err)
	}

	var user1Final string
	for _, s := range rec.sent {
		if s.userID == 1 {
			user1Final = s.reply.Text
		}
	}
	if user1Final != "wall is red" {
		t.Errorf("user 1 final = %q", user1Final)
	}
	if !e.InProgress(2) {
		t.Error("user 2 session should still be active")
	}
}
