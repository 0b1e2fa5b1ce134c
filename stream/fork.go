package stream

import "context"

// Fork pulls items from it and offers each to both sinkA and sinkB exactly
// once apiece — no duplication, no loss. sinkB runs first, against a
// pointer to the item (standing in for the spec's borrowed "peek" sink);
// sinkA then runs against the item by value. The sequential order makes
// this the Go rendition of the one-slot-buffer lockstep the spec describes
// for two sinks sharing one upstream poll loop.
func Fork[T any](ctx context.Context, it Iterator[T], sinkA func(ctx context.Context, item T) error, sinkB func(ctx context.Context, item *T) error) error {
	for {
		item, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := sinkB(ctx, &item); err != nil {
			return err
		}
		if err := sinkA(ctx, item); err != nil {
			return err
		}
	}
}
