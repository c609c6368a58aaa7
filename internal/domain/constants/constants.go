// Package constants holds configuration values shared across layers.
package constants

// Environments
const (
	EnvDevelop    = "develop"
	EnvLocal      = "local"
	EnvProduction = "production"
)

// Pub/Sub providers
const (
	PubSubProviderNoop   = "noop"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Catalog providers
const (
	CatalogProviderFirestore = "firestore"
	CatalogProviderFile      = "file"
)

// Profile stores
const (
	ProfileStoreFirestore = "firestore"
	ProfileStorePostgres  = "postgres"
)

// Auth providers
const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"
)
