// ABOUTME: Interactive front-end subcommands
// ABOUTME: Starts the terminal UI or the htmx web UI over one application controller
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/config"
	"github.com/harperreed/friendlog/notify"
	"github.com/harperreed/friendlog/render"
	"github.com/harperreed/friendlog/tui"
	"github.com/harperreed/friendlog/web"
)

func newTUICommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI",
		Args:  cobra.NoArgs,
		RunE:  rt.runTUI,
	}
}

func (rt *runtime) runTUI(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	toasts := rt.newToasts()
	defer toasts.Close()

	ctrl, err := app.New(app.Options{
		Gateway:     rt.gw,
		Renderer:    tui.NewRenderer(),
		Notifier:    toasts,
		Logger:      rt.logger,
		BaseContext: ctx,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	rt.logger.Info("starting terminal UI", zap.String("api", rt.cfg.APIBaseURL))
	return tui.Run(ctx, ctrl, toasts, rt.logger)
}

func newWebCommand(rt *runtime) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = rt.cfg.WebAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return rt.serveWeb(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default web_addr from config, "+config.DefaultWebAddr+")")
	return cmd
}

func (rt *runtime) serveWeb(ctx context.Context, addr string) error {
	html, err := render.NewHTML()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	toasts := rt.newToasts()
	defer toasts.Close()

	ctrl, err := app.New(app.Options{
		Gateway:     rt.gw,
		Renderer:    html,
		Notifier:    toasts,
		Logger:      rt.logger,
		BaseContext: ctx,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()
	if err := ctrl.Start(ctx); err != nil {
		return err
	}

	server, err := web.NewServer(web.Config{
		Controller: ctrl,
		HTML:       html,
		Toasts:     toasts,
		Logger:     rt.logger,
		Gatherer:   rt.registry,
	})
	if err != nil {
		return err
	}
	rt.printf("friendlog web UI on http://%s (api %s)\n", addr, rt.cfg.APIBaseURL)
	return server.ListenAndServe(ctx, addr)
}

func (rt *runtime) newToasts() *notify.Stack {
	return notify.NewStack(notify.WithDuration(time.Duration(rt.cfg.ToastDuration)))
}
