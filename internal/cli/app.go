package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/dmitrijs2005/coinvault/internal/backend"
	"github.com/dmitrijs2005/coinvault/internal/config"
	"github.com/dmitrijs2005/coinvault/internal/dbx"
	"github.com/dmitrijs2005/coinvault/internal/localdb"
	"github.com/dmitrijs2005/coinvault/internal/logging"
	"github.com/dmitrijs2005/coinvault/internal/query"
	"github.com/dmitrijs2005/coinvault/internal/repositories/metadata"
	"github.com/dmitrijs2005/coinvault/internal/services"
	"github.com/dmitrijs2005/coinvault/internal/settings"
)

// App wires the Coinvault CLI together: the backend client, the session
// manager, the coin service, the settings store and the local database.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	backend *backend.HTTPClient
	session *services.SessionManager
	coins   *services.CoinService
	store   *settings.Store
	meta    metadata.Repository

	settings settings.Settings
	desc     query.Descriptor
	reader   *bufio.Reader

	// busy suppresses a second auth submission while one is in flight.
	busy bool
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := backend.NewHTTPClient(c.BackendBaseURL, c.BackendAPIKey, c.RequestTimeout, c.RefreshLeeway, log)
	repo := metadata.NewSQLiteRepository(db)

	return &App{
		config:   c,
		log:      log,
		db:       db,
		backend:  apiClient,
		session:  services.NewSessionManager(apiClient, apiClient, log),
		coins:    services.NewCoinService(apiClient, log),
		store:    settings.NewStore(repo),
		meta:     repo,
		settings: settings.Defaults(),
		desc:     query.Defaults(),
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run resolves the persisted session, starts watching for session changes
// and enters the REPL. It blocks until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	if s, err := a.store.Load(ctx); err == nil {
		a.settings = s
		a.desc.Sort = query.SortKey(s.DefaultSort)
	}

	token, err := a.meta.Get(ctx, metadata.KeyRefreshToken)
	if err != nil {
		a.log.Warn(ctx, "could not read persisted session", "error", err)
	}

	unwatch := a.session.Subscribe(func(snap services.Snapshot) { a.persistSession(snap) })
	defer unwatch()

	a.session.Start(ctx, string(token))

	printlnFn("Coinvault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
	return nil
}

func (a *App) close() {
	a.session.Close()
	if err := a.backend.Close(); err != nil {
		a.log.Warn(context.Background(), "closing backend client", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "closing local database", "error", err)
	}
}

// persistSession keeps the local database in sync with the session: the
// refresh token and email survive restarts, and both are wiped on sign-out.
// Token and email are written in one transaction so a crash cannot leave a
// token without its owner.
func (a *App) persistSession(snap services.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		if snap.Status != services.StatusAuthenticated {
			if snap.Status == services.StatusUnauthenticated {
				if err := repo.Delete(ctx, metadata.KeyRefreshToken); err != nil {
					return err
				}
				return repo.Delete(ctx, metadata.KeyEmail)
			}
			return nil
		}

		token := a.backend.RefreshToken()
		if token == "" {
			return nil
		}
		if err := repo.Set(ctx, metadata.KeyRefreshToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyEmail, []byte(snap.Identity.Email))
	})
	if err != nil {
		a.log.Warn(ctx, "could not persist session state", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Status == services.StatusAuthenticated
}

func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	switch snap.Gate() {
	case services.GateLoading, services.GateProfilePending:
		return "(loading)"
	case services.GateConfirmEmail:
		return "(confirm email)"
	case services.GateError:
		return "(offline)"
	case services.GateReady:
		return "(" + snap.Identity.Email + ")"
	default:
		return ""
	}
}
