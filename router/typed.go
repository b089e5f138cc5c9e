package router

import (
	"context"

	"github.com/reoring/cmdskema"
)

// Typed adapts a handler taking the bound struct of a top-level command.
func Typed[T any](b *cmdskema.Binding[T], fn func(ctx context.Context, inv *Invocation, args T) error) Handler {
	return func(ctx context.Context, inv *Invocation) error {
		args, err := b.Decode(inv.Value)
		if err != nil {
			return err
		}
		return fn(ctx, inv, args)
	}
}

// TypedSet is like Typed for a binding over a whole command set.
func TypedSet[T any](b *cmdskema.SetBinding[T], fn func(ctx context.Context, inv *Invocation, args T) error) Handler {
	return func(ctx context.Context, inv *Invocation) error {
		args, err := b.Decode(inv.Value)
		if err != nil {
			return err
		}
		return fn(ctx, inv, args)
	}
}
