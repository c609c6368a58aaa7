// Package firebase adapts Firestore and Firebase Auth to the domain interfaces.
package firebase

import (
	"context"
	"log/slog"
	"sync"

	"restaurandes/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// Clients lazily creates the Firebase service clients so that deployments
// using only some Firebase features never need credentials for the others.
type Clients struct {
	app    *firebase.App
	logger *slog.Logger

	firestoreOnce   sync.Once
	firestoreClient *firestore.Client
	firestoreErr    error

	authOnce   sync.Once
	authClient *auth.Client
	authErr    error
}

// ClientsParams holds dependencies for Clients, injected by Fx
type ClientsParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewClients initializes the Firebase app from configuration
func NewClients(params ClientsParams) (*Clients, error) {
	cfg := params.Config.Firebase

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(params.Ctx, appConfig, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	clients := &Clients{app: app, logger: params.Logger}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return clients.Close()
		},
	})

	return clients, nil
}

// Firestore returns the shared Firestore client.
func (c *Clients) Firestore(ctx context.Context) (*firestore.Client, error) {
	c.firestoreOnce.Do(func() {
		c.firestoreClient, c.firestoreErr = c.app.Firestore(ctx)
		if c.firestoreErr != nil {
			c.firestoreErr = errors.Wrap(c.firestoreErr, "failed to get firestore client")

			return
		}
		c.logger.Info("Firestore client initialized")
	})

	return c.firestoreClient, c.firestoreErr
}

// Auth returns the shared Firebase Auth client.
func (c *Clients) Auth(ctx context.Context) (*auth.Client, error) {
	c.authOnce.Do(func() {
		c.authClient, c.authErr = c.app.Auth(ctx)
		if c.authErr != nil {
			c.authErr = errors.Wrap(c.authErr, "failed to get auth client")
		}
	})

	return c.authClient, c.authErr
}

// Close releases the Firestore connection if one was opened.
func (c *Clients) Close() error {
	if c.firestoreClient == nil {
		return nil
	}
	c.logger.Info("Closing Firestore client")

	return errors.WithStack(c.firestoreClient.Close())
}
