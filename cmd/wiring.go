package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/fmgr-go/internal/clipboard"
	"github.com/eykd/fmgr-go/internal/config"
	"github.com/eykd/fmgr-go/internal/domain"
	"github.com/eykd/fmgr-go/internal/engine"
	"github.com/eykd/fmgr-go/internal/fsys"
	"github.com/eykd/fmgr-go/internal/journal"
	"github.com/eykd/fmgr-go/internal/lock"
	"github.com/eykd/fmgr-go/internal/logging"
	"github.com/eykd/fmgr-go/internal/metrics"
)

// BuildCommandTree creates the root command with every subcommand wired to rt.
func BuildCommandTree(rt *Runtime) *cobra.Command {
	root := NewRootCmd()
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		rt.bind(cmd.InOrStdin(), cmd.ErrOrStderr())
		return nil
	}

	root.AddCommand(
		NewLsCmd(rt),
		NewDeleteCmd(rt),
		NewCopyCmd(rt),
		NewMoveCmd(rt),
		NewClipCmd(rt),
		NewPasteCmd(rt),
		NewMkdirCmd(rt),
		NewTouchCmd(rt),
		NewRenameCmd(rt),
		NewHistoryCmd(rt),
	)
	return root
}

// sessionOptions carries the global flags into a session.
type sessionOptions struct {
	ConfigPath string
	Verbose    bool
	OnConflict string
	Prompter   engine.Prompter
}

// session holds everything opened for one fmgr invocation.
type session struct {
	cfg     *config.Config
	logger  *logging.Logger
	svc     *engine.Service
	journal *journal.Journal
	metrics *metrics.Recorder
	clip    *clipboard.Store
}

// openSession loads configuration and wires the engine to the host
// filesystem, the lock, the journal and the metrics recorder.
func openSession(opts sessionOptions) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.OnConflict != "" {
		policy, err := config.ParsePolicy(opts.OnConflict)
		if err != nil {
			return nil, err
		}
		cfg.OnConflict = policy
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Development = cfg.Logging.Development
	if opts.Verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	lk, err := lock.NewFromPath(cfg.LockPath)
	if err != nil {
		return nil, err
	}
	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return nil, err
	}

	rec := metrics.New()
	svc := engine.NewService(fsys.New(), conflictPrompter(cfg.OnConflict, opts.Prompter),
		engine.WithLocker(lk),
		engine.WithObserver(engine.Observers{j, rec}),
		engine.WithLogger(logger.Component("engine")),
		engine.WithChunkSize(cfg.ChunkSize),
	)

	logger.Component("cmd").Debugw("session opened",
		"config", opts.ConfigPath,
		"on_conflict", string(cfg.OnConflict),
		"journal", cfg.JournalPath,
	)
	return &session{
		cfg:     cfg,
		logger:  logger,
		svc:     svc,
		journal: j,
		metrics: rec,
		clip:    clipboard.New(cfg.ClipboardPath),
	}, nil
}

// conflictPrompter picks the prompter for a conflict policy.
func conflictPrompter(p config.ConflictPolicy, interactive engine.Prompter) engine.Prompter {
	switch p {
	case config.PolicyOverwrite:
		return engine.Overwrite(domain.Continue)
	case config.PolicySkip:
		return engine.Always(domain.Continue)
	case config.PolicyAbort:
		return engine.Always(domain.Cancel)
	}
	return interactive
}

// Close writes the metrics textfile and closes the journal.
func (s *session) Close() error {
	var errs []error
	if s.cfg.MetricsTextfile != "" {
		errs = append(errs, s.metrics.WriteTextfile(s.cfg.MetricsTextfile))
	}
	if err := s.journal.Err(); err != nil {
		errs = append(errs, fmt.Errorf("journal: %w", err))
	}
	errs = append(errs, s.journal.Close())
	_ = s.logger.Sync()
	return errors.Join(errs...)
}
