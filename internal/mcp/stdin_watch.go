package mcp

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// WatchStdin monitors for parent process death in a background goroutine.
// When the parent PID changes (the MCP host exited or restarted), it calls
// cancelFn to trigger graceful shutdown. This prevents zombie server
// processes from accumulating.
//
// IMPORTANT: This must NOT read from stdin. The MCP SDK's StdioTransport
// owns stdin exclusively; reading here would steal bytes and corrupt the
// JSON-RPC stream.
//
// The goroutine exits when ctx is canceled or parent death is detected.
func WatchStdin(ctx context.Context, log *slog.Logger, cancelFn context.CancelFunc) {
	if log == nil {
		log = slog.Default()
	}
	ppid := os.Getppid()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
				if os.Getppid() != ppid {
					log.Warn("parent process died, initiating shutdown", "was_pid", ppid)
					cancelFn()
					return
				}
			}
		}
	}()
}
