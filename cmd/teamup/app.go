package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"teamup-notifier/auth"
	"teamup-notifier/config"
	"teamup-notifier/logging"
	"teamup-notifier/model"
	"teamup-notifier/service"
	"teamup-notifier/teamup"
	"teamup-notifier/tokens"
)

type app struct {
	tokens   *tokens.Manager
	client   *teamup.Client
	executor *service.Executor
	close    func()
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, err
	}

	verbosity := cfg.Log.Verbosity
	if opts.verbosity > verbosity {
		verbosity = opts.verbosity
	}
	logging.Initialize(verbosity)

	store, closeStore, err := tokens.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	grant := auth.NewPasswordGrant(cfg.TeamUp.AuthURL, cfg.TeamUp.Credentials, nil)
	manager := tokens.NewManager(store, grant.Fetch)
	client := teamup.NewClient(manager, nil, cfg.TeamUp.AuthURL, cfg.TeamUp.EdgeURL)

	return &app{
		tokens:   manager,
		client:   client,
		executor: service.New(client),
		close: func() {
			closeStore()
			_ = logging.L.Sync()
		},
	}, nil
}

var errActionFailed = errors.New("action failed")

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runSingle(ctx context.Context, w io.Writer, opts *rootOptions, action model.Action) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	result := a.executor.Execute(ctx, action)
	if err := writeJSON(w, result); err != nil {
		return err
	}
	if !result.Success {
		return errActionFailed
	}
	return nil
}
