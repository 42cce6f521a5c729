package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/jobseek/internal/api"
	"github.com/kalambet/jobseek/internal/logging"
	"github.com/kalambet/jobseek/internal/tui"
)

const shutdownTimeout = 5 * time.Second

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat in the terminal (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local JSON API for a browser front-end",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP(cmd.Context())
	},
}

func runChat(ctx context.Context) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// The TUI owns the terminal, so logs go to a file.
	_, logFile, err := logging.SetupFile(a.cfg.Storage.DataDir, a.cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()
	slog.Info("starting chat", "version", version)

	m := tui.New(tui.Deps{
		Session: a.session,
		Dialog:  a.dialog,
		Themes:  a.themes,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running chat: %w", err)
	}

	// Closing the app while the settings overlay is open still saves the draft.
	if a.dialog.State().Open {
		if err := a.dialog.Close(); err != nil {
			slog.Warn("settings not saved on exit", "error", err)
		}
	}
	return nil
}

func runServer(ctx context.Context) error {
	fmt.Fprintf(os.Stderr, "jobseek version %s\n", version)

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	logging.Setup(os.Stderr, a.cfg.Log.Level)
	a.session.Seed()

	handler := api.NewAppHandler(api.AppDeps{
		Session: a.session,
		Dialog:  a.dialog,
		Theme:   a.themes,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", a.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("jobseek listening", "addr", addr)
		printSuccess("Listening on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func runMCP(ctx context.Context) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// stdout carries the protocol.
	logging.Setup(os.Stderr, a.cfg.Log.Level)

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Session: a.session,
		Version: version,
	})
	slog.Info("jobseek MCP server ready on stdio")
	err = server.NewStdioServer(mcpSrv).Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
