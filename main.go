// Command envenc encrypts and decrypts files with a key derived from a secret.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/envenc/internal/commands"
	"github.com/idelchi/envenc/internal/config"
)

// version is set at build time.
var version = "unknown - unofficial & generated by unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cfg := &config.Config{}

	err := commands.NewRootCommand(cfg, version).ExecuteContext(ctx)

	stop()

	if err != nil && !errors.Is(err, cobraext.ErrExitGracefully) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
