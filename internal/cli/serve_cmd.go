// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/server"
)

const shutdownTimeout = 5 * time.Second

// HandleServe runs the development answer backend until interrupted.
//
//	legichat serve [--port N]
func HandleServe(args Args) error {
	p := NewArgParser(args.Raw)

	port := server.DefaultPort
	if raw := p.Flag("port"); raw != "" {
		n, err := ParsePort(raw)
		if err != nil {
			return NewUsageError(err.Error(), "legichat serve [--port N]")
		}
		port = n
	}

	log.SetOutput(os.Stderr)
	if !args.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.NewServer(port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	if !args.JSON {
		fmt.Fprintln(stdout, RenderConditional(SuccessStyle,
			fmt.Sprintf("Serveur LegiChat sur http://127.0.0.1:%d/api (Ctrl+C pour arrêter)", port)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return NewCommandError("serve", "listen", fmt.Sprintf("port %d", port), err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return NewCommandError("serve", "shutdown", "graceful stop failed", err)
	}
	return <-errCh
}
