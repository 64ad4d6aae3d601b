package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	content "github.com/goliatone/go-content-api"
	"github.com/goliatone/go-content-api/config"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	repo   content.RepositoryManager
	auther *content.RouteAuthenticator
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Debug),
		glog.WithName("content-api"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	fmt.Println("============")

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	if err := WithRoutes(ctx, app); err != nil {
		panic(err)
	}

	app.srv.Serve(app.Config().GetServer().GetAddr())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		return err
	}

	persistence.RegisterModel((*content.User)(nil))
	persistence.RegisterModel((*content.Category)(nil))
	persistence.RegisterModel((*content.Article)(nil))

	pcfg := app.Config().GetPersistence()
	dialect := sqlitedialect.New()
	client, err := persistence.New(pcfg, db, dialect)
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(content.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = content.NewRepositoryManager(client.DB())

	if err := app.repo.Validate(); err != nil {
		return err
	}

	// Users must exist before article fixtures load, their ids anchor
	// the author references.
	seeder := content.NewSeedUsersHandler(app.repo).
		WithLogger(loggerAdapter{app.GetLogger("seed")})
	if err := seeder.Execute(ctx, content.SeedUsersMessage{Users: content.DefaultSeedUsers()}); err != nil {
		return err
	}

	client.RegisterFixtures(content.GetFixturesFS()).AddOptions(persistence.WithTrucateTables())

	if err := client.Seed(ctx); err != nil {
		return err
	}

	if report := client.Report(); report != nil && !report.IsZero() {
		fmt.Printf("report: %s\n", report.String())
	}

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       app.Config().GetApp().GetName(),
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	app.srv = srv

	return nil
}

func WithRoutes(ctx context.Context, app *App) error {
	cfg := app.Config().GetAuth()

	userProvider := content.NewUserProvider(userTrackerAdapter{users: app.repo.Users()}).
		WithLogger(loggerAdapter{app.GetLogger("auth:prv")})

	authenticator := content.NewAuthenticator(userProvider, cfg).
		WithLogger(loggerAdapter{app.GetLogger("auth")})

	auther, err := content.NewHTTPAuthenticator(authenticator, userProvider, cfg)
	if err != nil {
		return err
	}
	auther.WithLogger(loggerAdapter{app.GetLogger("auth:http")})
	app.auther = auther

	root := app.srv.Router().Group("/")

	content.RegisterAuthRoutes(root, auther,
		content.WithAuthRepo(app.repo),
		content.WithAuthAuther(authenticator),
		content.WithAuthConfig(cfg),
		content.WithAuthLogger(loggerAdapter{app.GetLogger("ctrl:auth")}),
	)

	users := content.NewUserService(app.repo, cfg).
		WithLogger(loggerAdapter{app.GetLogger("svc:users")})
	content.RegisterUserRoutes(root, auther,
		content.NewUsersController(users, cfg, loggerAdapter{app.GetLogger("ctrl:users")}))

	articles := content.NewArticleService(app.repo, cfg).
		WithLogger(loggerAdapter{app.GetLogger("svc:articles")})
	content.RegisterArticleRoutes(root, auther,
		content.NewArticlesController(articles, cfg, loggerAdapter{app.GetLogger("ctrl:articles")}))

	categories := content.NewCategoryService(app.repo, cfg).
		WithLogger(loggerAdapter{app.GetLogger("svc:categories")})
	content.RegisterCategoryRoutes(root, auther,
		content.NewCategoriesController(categories, cfg, loggerAdapter{app.GetLogger("ctrl:categories")}))

	content.RegisterSystemRoutes(root,
		content.NewSystemController(app.repo, loggerAdapter{app.GetLogger("ctrl:system")}))

	return nil
}

type userTrackerAdapter struct {
	users content.Users
}

func (a userTrackerAdapter) GetByIdentifier(ctx context.Context, identifier string) (*content.User, error) {
	return a.users.GetByIdentifier(ctx, identifier)
}

func (a userTrackerAdapter) TrackAttemptedLogin(ctx context.Context, user *content.User) error {
	return a.users.TrackAttemptedLogin(ctx, user)
}

func (a userTrackerAdapter) TrackSucccessfulLogin(ctx context.Context, user *content.User) error {
	return a.users.TrackSucccessfulLogin(ctx, user)
}

// loggerAdapter bridges glog's structured logger to the core Logger.
type loggerAdapter struct {
	logger glog.Logger
}

func (l loggerAdapter) Debug(format string, args ...any) { l.logger.Debug(format, args...) }
func (l loggerAdapter) Info(format string, args ...any)  { l.logger.Info(format, args...) }
func (l loggerAdapter) Warn(format string, args ...any)  { l.logger.Warn(format, args...) }
func (l loggerAdapter) Error(format string, args ...any) { l.logger.Error(format, args...) }

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
