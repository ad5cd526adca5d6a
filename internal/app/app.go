package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/taplist/internal/archive"
	"github.com/llehouerou/taplist/internal/keymap"
	"github.com/llehouerou/taplist/internal/playback"
	"github.com/llehouerou/taplist/internal/ui/headerbar"
	"github.com/llehouerou/taplist/internal/ui/prompt"
	"github.com/llehouerou/taplist/internal/ui/styles"
	"github.com/llehouerou/taplist/internal/ui/trackpanel"
)

const volumeStep = 0.05

// Options configures the application model.
type Options struct {
	// Identifier is loaded at startup instead of restoring the session.
	Identifier  string
	Format      string // listing format, for the empty playlist notice
	SeekStep    time.Duration
	SpeedStep   float64
	MaxAttempts int // shown while retrying
	Logger      zerolog.Logger
}

// Model is the root application model containing all state.
type Model struct {
	ctx       context.Context
	svc       playback.Service
	sub       *playback.Subscription
	keys      *keymap.Map
	opts      Options
	logger    zerolog.Logger
	Panel     trackpanel.Model
	Prompt    prompt.Model
	Help      help.Model
	Header    headerbar.Status
	Status    string // last error or notice, shown above the help line
	FullHelp  bool
	requested string // last identifier asked for
	Width     int
	Height    int
}

// New creates the application model. ctx bounds playlist requests.
func New(ctx context.Context, svc playback.Service, opts Options) Model {
	if opts.SeekStep <= 0 {
		opts.SeekStep = 10 * time.Second
	}
	if opts.SpeedStep <= 0 {
		opts.SpeedStep = 0.25
	}
	if opts.Format == "" {
		opts.Format = archive.DefaultFormat
	}

	h := help.New()
	h.Styles.ShortKey = styles.T().S().Muted
	h.Styles.ShortDesc = styles.T().S().Subtle
	h.Styles.FullKey = styles.T().S().Muted
	h.Styles.FullDesc = styles.T().S().Subtle

	panel := trackpanel.New()
	panel.SetFocused(true)
	if svc.Len() > 0 {
		panel.SetTracks(svc.Tracks(), svc.CurrentIndex())
	}

	return Model{
		ctx:    ctx,
		svc:    svc,
		sub:    svc.Subscribe(),
		keys:   keymap.Default(),
		opts:   opts,
		logger: opts.Logger.With().Str("component", "app").Logger(),
		Panel:  panel,
		Prompt: prompt.New(),
		Help:   h,
		Header: headerbar.Status{
			Source:      svc.SourceID(),
			Tracks:      svc.Len(),
			MaxAttempts: opts.MaxAttempts,
		},
		requested: opts.Identifier,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	start := RestoreCmd(m.ctx, m.svc)
	if m.opts.Identifier != "" {
		start = RequestLoadCmd(m.ctx, m.svc, m.opts.Identifier)
	}

	return tea.Batch(
		TickCmd(),
		WatchServiceEvents(m.sub),
		WatchTrackFinished(m.svc),
		WatchPlayerErrors(m.svc),
		WatchStderr(),
		start,
	)
}
