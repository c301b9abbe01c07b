package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/iksnae/complaint-desk/internal"
	"github.com/iksnae/complaint-desk/internal/api"
	"github.com/iksnae/complaint-desk/internal/session"
	"github.com/spf13/pflag"
)

// console is everything one invocation needs: resolved config, the
// credential store, the session resolver and the API client.
type console struct {
	paths    internal.DataPaths
	cfg      internal.Config
	store    session.Store
	resolver *session.Resolver
	client   *api.Client
	prompter internal.Prompter
	stderr   io.Writer
	inShell  bool

	closeStore func() error
	unwatch    func()
}

type options struct {
	stdout   io.Writer
	stderr   io.Writer
	prompter internal.Prompter
}

// parseGlobalFlags reads only the global flags out of args, ahead of cobra,
// so the console can be opened before the command tree exists.
func parseGlobalFlags(args []string) (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	internal.AddConfigFlags(fs)

	if err := fs.Parse(args); err != nil && err != pflag.ErrHelp {
		return nil, err
	}
	return fs, nil
}

// openConsole resolves config, opens the store and bootstraps the session
func openConsole(ctx context.Context, fs *pflag.FlagSet, opts options) (*console, error) {
	paths, err := internal.DetectDataPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to detect data directory: %w", err)
	}

	v := internal.NewViper(paths)
	if err := internal.BindConfigFlags(v, fs); err != nil {
		return nil, err
	}
	configFile, _ := fs.GetString("config")
	cfg, err := internal.LoadConfig(v, configFile)
	if err != nil {
		return nil, err
	}
	internal.SetVerbose(cfg.Verbose)

	c := &console{
		paths:      paths,
		cfg:        cfg,
		prompter:   opts.prompter,
		stderr:     opts.stderr,
		closeStore: func() error { return nil },
	}
	c.openStore()

	c.resolver = session.NewResolver(c.store, session.WithTimeout(cfg.StoreTimeout))
	c.client = api.NewClient(cfg.APIURL,
		api.WithRetries(cfg.Retries),
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithUserAgent(userAgent()),
	)
	c.unwatch = c.resolver.Watch(func(s session.Session) {
		c.client.SetToken(s.Token)
	})

	c.bootstrap(ctx)
	return c, nil
}

// openStore opens the credential database. When it cannot be opened the
// console still starts, on a store whose every call fails, so the session
// resolves to signed out.
func (c *console) openStore() {
	if c.cfg.Ephemeral {
		c.store = session.NewMemoryStore(nil)
		return
	}

	store, err := internal.OpenCredentialStore(c.cfg.StorePath)
	if err != nil {
		internal.LogWarn("Credential store unavailable: %v", err)
		c.store = unavailableStore{err: err}
		return
	}
	c.store = store
	c.closeStore = store.Close
}

// bootstrap shows the loading indicator while the session is read
func (c *console) bootstrap(ctx context.Context) {
	if c.resolver.Route() != session.TreeLoading {
		return
	}

	spinner := internal.StartSpinner(c.stderr, "Loading session")
	if err := c.resolver.Bootstrap(ctx); err != nil {
		internal.LogDebug("Bootstrap: %v", err)
	}
	spinner.Clear()
	internal.LogDebug("Routed to %s console", c.resolver.Route())
}

func (c *console) Close() error {
	if c.unwatch != nil {
		c.unwatch()
	}
	return c.closeStore()
}

func (c *console) storeLocation() string {
	if c.cfg.Ephemeral {
		return "memory (ephemeral)"
	}
	return c.cfg.StorePath
}

// unavailableStore stands in for a credential database that failed to open
type unavailableStore struct {
	err error
}

func (s unavailableStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, s.err
}

func (s unavailableStore) Set(ctx context.Context, key, value string) error {
	return s.err
}

func (s unavailableStore) Remove(ctx context.Context, key string) error {
	return s.err
}

func userAgent() string {
	return "complaint-desk/" + version
}
