package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"mathdoc-be/internal/service"
	"mathdoc-be/pkg/events"
	pktNats "mathdoc-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var watchCommand = &cli.Command{
	Name:   "watch",
	Usage:  "Re-export documents as revisions are saved",
	Action: watch,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "out",
			Aliases:     []string{"o"},
			Usage:       "Directory to export into. Defaults to EXPORT_ROOT.",
			Destination: &watchOpts.out,
		},
		&cli.StringFlag{
			Name:        "durable",
			Usage:       "Durable consumer name prefix, so restarts resume where they stopped.",
			Value:       "docexport-watch",
			Destination: &watchOpts.durable,
		},
	},
}

var watchOpts struct {
	out     string
	durable string
}

func watch(cc *cli.Context) error {
	env, err := newExportEnv(service.ExportOptions{Root: watchOpts.out})
	if err != nil {
		return err
	}
	defer env.Close(context.Background())

	if env.cfg.App.NatsURL == "" {
		return cli.Exit("NATS_URL is not set", 1)
	}
	sub, err := pktNats.NewSubscriber(env.cfg.App.NatsURL, env.log.Zap())
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(cc.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := logged(env.log.Zap(), service.NewExportEventHandler(env.service, ""))
	for _, eventType := range []string{events.RevisionSaved, events.DocumentDeleted} {
		durable := watchOpts.durable + "-" + eventType
		if err := sub.Subscribe(ctx, eventType, durable, handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", eventType, err)
		}
	}

	color.Cyan("Watching %s for document events. Press Ctrl+C to stop.", env.cfg.App.NatsURL)
	<-ctx.Done()
	color.Cyan("Stopped.")
	return nil
}

func logged(log *zap.Logger, next pktNats.EventHandler) pktNats.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		err := next(ctx, event)
		handle := events.StringField(event, "handle")
		if err != nil {
			color.Red("  %s %s: %v", event.EventType(), handle, err)
			return err
		}
		color.Green("  %s %s", event.EventType(), handle)
		log.Info("event handled", zap.String("type", event.EventType()), zap.String("handle", handle))
		return nil
	}
}
