// Package server builds the GophBlog server and runs its HTTP and gRPC
// listeners until a signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/httpapi"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/dmitrijs2005/gophblog/internal/server/storage"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophblog/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const secretKeyBytes = 32

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	userService *services.UserService
	postService *services.PostService
	authn       *auth.Authenticator
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	if err := app.initStorage(ctx); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	codec, err := auth.NewTokenCodec(app.secretKey(ctx), c.AccessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	hasher, err := auth.NewPasswordHasher(c.PasswordAlgorithm, c.BcryptCost)
	if err != nil {
		return nil, err
	}
	pool, err := auth.NewHashPool(hasher, c.HashWorkers)
	if err != nil {
		return nil, err
	}

	presigner, err := app.initPresigner(ctx)
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	app.userService = services.NewUserService(app.repomanager, pool, codec, time.Now)
	app.postService = services.NewPostService(app.repomanager, presigner, time.Now)
	app.authn = auth.NewAuthenticator(codec, app.repomanager.Users(), time.Now)

	created, err := app.userService.SeedAdmin(ctx, services.RegisterInput{
		Username: c.AdminUsername,
		Email:    c.AdminEmail,
		Password: c.AdminPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("admin seed error: %w", err)
	}
	if created {
		logger.Info(ctx, "Created admin account", "username", c.AdminUsername)
	}

	return app, nil
}

func (app *App) initStorage(ctx context.Context) error {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "No database DSN configured, using in-memory storage")
		app.repomanager = repomanager.NewMemoryRepositoryManager()
		return nil
	}

	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	m := repomanager.NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrations: %w", err)
	}

	app.db = db
	app.repomanager = m
	return nil
}

// secretKey returns the configured signing key, or a random one that only
// lives as long as the process.
func (app *App) secretKey(ctx context.Context) []byte {
	if app.config.SecretKey != "" {
		return []byte(app.config.SecretKey)
	}
	app.logger.Warn(ctx, "No secret key configured, generated a random one; tokens will not survive a restart")
	return common.GenerateRandByteArray(secretKeyBytes)
}

func (app *App) initPresigner(ctx context.Context) (storage.Presigner, error) {
	if app.config.S3Bucket == "" {
		app.logger.Warn(ctx, "No S3 bucket configured, attachments disabled")
		return nil, nil
	}
	p, err := storage.NewS3Presigner(ctx, storage.S3Config{
		Region:       app.config.S3Region,
		AccessKey:    app.config.S3RootUser,
		SecretKey:    app.config.S3RootPassword,
		Bucket:       app.config.S3Bucket,
		BaseEndpoint: app.config.S3BaseEndpoint,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives, or
// either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := app.initSignalHandler(ctx)
	defer cancel()

	app.logger.Info(ctx, "Starting app...")

	handler := httpapi.NewHandler(app.userService, app.postService, app.authn, app.logger.With("module", "http"))
	httpServer := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, httpapi.NewRouter(handler, app.config.CORSOrigins), app.logger)

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger)
	grpcServer.SetServing(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(gctx) })
	g.Go(func() error { return grpcServer.Run(gctx) })

	err := g.Wait()

	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			app.logger.Error(context.Background(), "error closing database", "error", cerr)
		}
	}

	app.logger.Info(context.Background(), "App stopped")
	return err
}
