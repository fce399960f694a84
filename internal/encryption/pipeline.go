package encryption

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// pipelineDepth bounds the number of chunks in flight between two stages.
const pipelineDepth = 4

// pipe streams r through t into w as three stages connected by bounded channels.
// A slow writer blocks the transformer, which in turn blocks the reader.
// The first failing stage cancels the others. It returns the number of bytes written to w.
//
//nolint:cyclop,gocognit
func pipe(ctx context.Context, reader io.Reader, writer io.Writer, t Transformer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	group, ctx := errgroup.WithContext(ctx)

	plain := make(chan []byte, pipelineDepth)
	transformed := make(chan []byte, pipelineDepth)

	var (
		written int64
		// complete is set by the reader before it closes plain on a clean EOF.
		complete bool
	)

	group.Go(func() error {
		defer close(plain)

		for {
			buf := getBuffer()

			n, err := reader.Read(buf)
			if n > 0 {
				select {
				case plain <- buf[:n]:
				case <-ctx.Done():
					putBuffer(buf)

					return ctx.Err()
				}
			} else {
				putBuffer(buf)
			}

			if errors.Is(err, io.EOF) {
				complete = true

				return nil
			}

			if err != nil {
				return fmt.Errorf("%w: reading input: %w", ErrIO, err)
			}
		}
	})

	group.Go(func() error {
		defer close(transformed)

		for chunk := range plain {
			out := t.Update(chunk)

			putBuffer(chunk)

			if err := send(ctx, transformed, out); err != nil {
				return err
			}
		}

		// The reader closes plain on failure too and reports its own error.
		if !complete {
			return nil
		}

		out, err := t.Final()
		if err != nil {
			return err
		}

		return send(ctx, transformed, out)
	})

	group.Go(func() error {
		for chunk := range transformed {
			n, err := writer.Write(chunk)
			written += int64(n)

			if err != nil {
				return fmt.Errorf("%w: writing output: %w", ErrIO, err)
			}
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return written, err
	}

	return written, nil
}

func send(ctx context.Context, ch chan<- []byte, chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	select {
	case ch <- chunk:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
