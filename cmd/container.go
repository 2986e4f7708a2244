// cmd/container.go
//
// Root composition root. Owns the platform adapters (identity, document
// store, email) and composes the bounded contexts. This is the only place
// that knows about ALL modules.
package main

import (
	"context"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jelajahid/jelajah/pkg/config"
	"github.com/jelajahid/jelajah/pkg/docstore"
	"github.com/jelajahid/jelajah/pkg/docstore/docstorefs"
	"github.com/jelajahid/jelajah/pkg/docstore/docstoremem"
	"github.com/jelajahid/jelajah/pkg/iam/auth"
	"github.com/jelajahid/jelajah/pkg/identity"
	"github.com/jelajahid/jelajah/pkg/identity/identityfb"
	"github.com/jelajahid/jelajah/pkg/identity/identitymem"
	"github.com/jelajahid/jelajah/pkg/logx"
	"github.com/jelajahid/jelajah/pkg/metrics"
	"github.com/jelajahid/jelajah/pkg/notifx"
	"github.com/jelajahid/jelajah/pkg/notifx/notifxconsole"
	"github.com/jelajahid/jelajah/pkg/notifx/notifxses"
	"github.com/jelajahid/jelajah/pkg/travel/travelapi"
	"github.com/jelajahid/jelajah/pkg/travel/travelsrv"
)

// Container holds shared infrastructure and composed module wiring.
type Container struct {
	Config *config.Config

	// Infrastructure (shared across all modules)
	Identity identity.Provider
	Docstore docstore.Store
	Notifier *notifx.Client
	Metrics  *metrics.Collector

	// Bounded contexts
	AuthMiddleware *auth.TokenMiddleware
	AuthHandlers   *auth.Handlers
	TravelHandlers *travelapi.Handlers

	firestore *docstorefs.FirestoreStore
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure — identity provider, document store, email
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	c.initNotifier()
	c.initIdentity()
	c.initDocstore()

	c.Metrics = metrics.NewCollector()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initNotifier() {
	switch c.Config.Notifx.Provider {
	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
			awsConfig.WithRegion(c.Config.Notifx.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		from := c.Config.Notifx.FromAddress
		c.Notifier = notifx.NewClient(notifxses.NewSESProvider(ses.NewFromConfig(awsCfg), from))
		logx.Infof("  ✅ SES email configured (region: %s)", c.Config.Notifx.AWSRegion)

	case "console":
		c.Notifier = notifx.NewClient(notifxconsole.NewConsoleProvider())
		logx.Info("  ✅ Console email configured")

	default:
		logx.Fatalf("Unknown NOTIFX_PROVIDER: %s (use 'console' or 'ses')", c.Config.Notifx.Provider)
	}
}

func (c *Container) initIdentity() {
	switch c.Config.Identity.Provider {
	case "firebase":
		if err := c.Config.Firebase.Validate(); err != nil {
			logx.Fatalf("Firebase configuration invalid: %v", err)
		}
		provider, err := identityfb.New(context.Background(), c.Config.Firebase)
		if err != nil {
			logx.Fatalf("Failed to initialize Firebase identity provider: %v", err)
		}
		c.Identity = provider
		logx.Infof("  ✅ Firebase identity provider configured (project: %s)", c.Config.Firebase.ProjectID)

	case "memory":
		if c.Config.Identity.TokenSecret == "" {
			logx.Fatalf("IDENTITY_TOKEN_SECRET is required in memory identity mode")
		}
		c.Identity = identitymem.New(c.Config.Identity.TokenSecret,
			identitymem.WithTokenTTL(c.Config.Identity.TokenTTL),
			identitymem.WithNotifier(c.Notifier, c.Config.Notifx.FromAddress),
		)
		logx.Info("  ✅ In-memory identity provider configured")

	default:
		logx.Fatalf("Unknown IDENTITY_PROVIDER: %s (use 'firebase' or 'memory')", c.Config.Identity.Provider)
	}
}

func (c *Container) initDocstore() {
	switch c.Config.Docstore.Provider {
	case "firestore":
		if err := c.Config.Firebase.Validate(); err != nil {
			logx.Fatalf("Firebase configuration invalid: %v", err)
		}
		store, err := docstorefs.New(context.Background(), c.Config.Firebase)
		if err != nil {
			logx.Fatalf("Failed to initialize Firestore: %v", err)
		}
		c.firestore = store
		c.Docstore = store
		logx.Infof("  ✅ Firestore configured (project: %s)", c.Config.Firebase.ProjectID)

	case "memory":
		c.Docstore = docstoremem.New()
		logx.Info("  ✅ In-memory document store configured")

	default:
		logx.Fatalf("Unknown DOCSTORE_PROVIDER: %s (use 'firestore' or 'memory')", c.Config.Docstore.Provider)
	}
}

// ---------------------------------------------------------------------------
// Module composition — each bounded context wires itself
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	c.AuthMiddleware = auth.NewTokenMiddleware(c.Identity)
	c.AuthHandlers = auth.NewHandlers(auth.NewService(c.Identity))

	destinations := travelsrv.NewDestinationService(c.Docstore)
	posts := travelsrv.NewPostService(c.Docstore)
	c.TravelHandlers = travelapi.NewHandlers(destinations, posts)
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.firestore != nil {
		if err := c.firestore.Close(); err != nil {
			logx.Errorf("Error closing Firestore client: %v", err)
		} else {
			logx.Info("  ✅ Firestore client closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
