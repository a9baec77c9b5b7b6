package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
)

type turnKey struct{}

type passKey struct{}

// NewPassID generates an 8-character hex id for one maintenance pass (4 random bytes).
func NewPassID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithTurn returns a context carrying the simulation turn.
func WithTurn(ctx context.Context, turn int) context.Context {
	return context.WithValue(ctx, turnKey{}, turn)
}

// Turn extracts the simulation turn from ctx.
func Turn(ctx context.Context) (int, bool) {
	turn, ok := ctx.Value(turnKey{}).(int)
	return turn, ok
}

// WithPass returns a context carrying a maintenance pass id.
func WithPass(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, passKey{}, id)
}

// Pass extracts the maintenance pass id from ctx, returning ("", false) if not present.
func Pass(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(passKey{}).(string)
	return id, ok && id != ""
}

// TurnHandler wraps an existing slog.Handler and injects "turn" and "pass_id"
// attributes when the context carries them.
type TurnHandler struct {
	inner slog.Handler
}

// NewTurnHandler creates a turn-aware handler wrapping the given handler.
func NewTurnHandler(inner slog.Handler) *TurnHandler {
	return &TurnHandler{inner: inner}
}

func (h *TurnHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *TurnHandler) Handle(ctx context.Context, r slog.Record) error {
	if turn, ok := Turn(ctx); ok {
		r.AddAttrs(slog.Int("turn", turn))
	}
	if id, ok := Pass(ctx); ok {
		r.AddAttrs(slog.String("pass_id", id))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("turn handler: %w", err)
	}
	return nil
}

func (h *TurnHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TurnHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *TurnHandler) WithGroup(name string) slog.Handler {
	return &TurnHandler{inner: h.inner.WithGroup(name)}
}
