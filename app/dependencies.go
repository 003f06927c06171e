package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/cognito"
	"github.com/zenidr/todo-cognito-api/config"
	"github.com/zenidr/todo-cognito-api/handlers"
	"github.com/zenidr/todo-cognito-api/middleware"
	"github.com/zenidr/todo-cognito-api/repositories"
	"github.com/zenidr/todo-cognito-api/repositories/postgres"
	"github.com/zenidr/todo-cognito-api/services/account"
	"github.com/zenidr/todo-cognito-api/services/todo"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Todos     repositories.TodoRepository
	TxManager repositories.TransactionManager

	// Services
	TodoService    *todo.Service
	AccountService *account.Service

	// Handlers
	TodoHandler    *handlers.TodoHandler
	AccountHandler *handlers.AccountHandler
	HealthHandler  *handlers.HealthHandler

	// Auth
	Verifier       *cognito.Verifier
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := deps.initAuth(cfg); err != nil {
		deps.RepoFactory.Close()
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	if err := deps.initServices(ctx, cfg); err != nil {
		deps.RepoFactory.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection, repositories, and schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.InitSchema(ctx); err != nil {
		factory.Close()
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	repos := factory.NewRepositories()
	d.Todos = repos.Todos
	d.TxManager = factory.GetTransactionManager()

	return nil
}

// initAuth initializes the token verifier and the auth gate
func (d *Dependencies) initAuth(cfg *config.Config) error {
	verifier, err := cognito.NewVerifier(cognito.Config{
		Region:      cfg.Cognito.Region,
		UserPoolID:  cfg.Cognito.UserPoolID,
		ClientID:    cfg.Cognito.ClientID,
		CacheTTL:    cfg.Cognito.JWKSCacheTTL,
		HTTPTimeout: cfg.Cognito.HTTPTimeout,
	})
	if err != nil {
		return err
	}

	d.Verifier = verifier
	d.AuthMiddleware = middleware.NewAuthMiddleware(verifier, d.Logger)

	d.Logger.Info("token verifier initialized",
		zap.String("region", cfg.Cognito.Region),
		zap.String("user_pool_id", cfg.Cognito.UserPoolID))
	return nil
}

// initServices initializes the todo and account services
func (d *Dependencies) initServices(ctx context.Context, cfg *config.Config) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Cognito.Region))
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := cognitoidentityprovider.NewFromConfig(awsCfg)
	d.AccountService = account.NewService(client, cfg.Cognito.ClientID, cfg.Cognito.ClientSecret, d.Logger)

	d.TodoService = todo.NewService(d.Todos, d.TxManager, d.Logger)

	return nil
}

// initHandlers initializes the HTTP handlers
func (d *Dependencies) initHandlers() {
	d.TodoHandler = handlers.NewTodoHandler(d.TodoService, d.Logger)
	d.AccountHandler = handlers.NewAccountHandler(d.AccountService, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB, d.Verifier, d.Logger)
}

// Close releases all held resources
func (d *Dependencies) Close(ctx context.Context) error {
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			return fmt.Errorf("failed to close repositories: %w", err)
		}
	}

	d.Logger.Info("dependencies closed")
	return nil
}
