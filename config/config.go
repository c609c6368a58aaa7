package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"

	defaultRestaurantsCollection = "restaurants"
	defaultUsersCollection       = "users"
	defaultRadiusKm              = 5.0
	defaultTimeZone              = "America/Bogota"
	defaultWriteTimeout          = 10 * time.Second
	defaultSessionTTL            = 30 * time.Minute
	defaultMaxSessions           = 10000
	defaultRetryInterval         = 5 * time.Second

	// Universidad de los Andes campus, Bogotá.
	defaultFallbackLatitude  = 4.6017
	defaultFallbackLongitude = -74.0659
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Postgres is only dialled when favorites.store is "postgres".
	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Firebase project backing the catalog, profiles and ID tokens
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// Catalog configures where restaurant records come from and how they are kept fresh
	Catalog *CatalogConfig `json:"catalog" yaml:"catalog"`

	Discovery *DiscoveryConfig `json:"discovery" yaml:"discovery"`

	Favorites *FavoritesConfig `json:"favorites" yaml:"favorites"`

	Location *LocationConfig `json:"location" yaml:"location"`

	// PubSub configuration for event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// FirebaseConfig defines the Firebase project and Firestore collection names
type FirebaseConfig struct {
	ProjectID             string `json:"projectId" yaml:"projectId"`
	CredentialsPath       string `json:"credentialsPath" yaml:"credentialsPath"`
	RestaurantsCollection string `json:"restaurantsCollection" yaml:"restaurantsCollection"`
	UsersCollection       string `json:"usersCollection" yaml:"usersCollection"`
}

// AuthConfig selects how bearer tokens are verified.
type AuthConfig struct {
	// Provider is "firebase" (ID tokens) or "jwt" (HS256, development)
	Provider  string `json:"provider" yaml:"provider"`
	JWTSecret string `json:"jwtSecret" yaml:"jwtSecret"`
	JWTIssuer string `json:"jwtIssuer" yaml:"jwtIssuer"`
}

// CatalogConfig defines the restaurant data provider
type CatalogConfig struct {
	// Provider is "firestore" or "file"
	Provider string `json:"provider" yaml:"provider"`

	// FilePath points at a YAML seed file (for file provider)
	FilePath string `json:"filePath" yaml:"filePath"`

	// Watch subscribes to provider changes instead of relying on refreshes only
	Watch bool `json:"watch" yaml:"watch"`

	// RefreshInterval triggers a full reload periodically; zero disables it
	RefreshInterval time.Duration `json:"refreshInterval" yaml:"refreshInterval"`

	// RetryInterval is the pause before a failed watch is restarted
	RetryInterval time.Duration `json:"retryInterval" yaml:"retryInterval"`
}

// DiscoveryConfig defines query defaults
type DiscoveryConfig struct {
	DefaultRadiusKm float64 `json:"defaultRadiusKm" yaml:"defaultRadiusKm"`

	// MaxRadiusKm caps nearby queries; zero means unlimited
	MaxRadiusKm float64 `json:"maxRadiusKm" yaml:"maxRadiusKm"`

	// OpenPolicy is "hours" (derive from opening hours) or "flag" (stored isOpen)
	OpenPolicy string `json:"openPolicy" yaml:"openPolicy"`

	// TimeZone the opening hours are written in
	TimeZone string `json:"timeZone" yaml:"timeZone"`
}

// FavoritesConfig defines the profile store and session handling
type FavoritesConfig struct {
	// Store is "firestore" or "postgres"
	Store        string        `json:"store" yaml:"store"`
	AutoMigrate  bool          `json:"autoMigrate" yaml:"autoMigrate"`
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	MaxSessions  int           `json:"maxSessions" yaml:"maxSessions"`
	SessionTTL   time.Duration `json:"sessionTtl" yaml:"sessionTtl"`
}

// LocationConfig defines the fallback used when a request carries no coordinates
type LocationConfig struct {
	FallbackEnabled bool    `json:"fallbackEnabled" yaml:"fallbackEnabled"`
	Latitude        float64 `json:"latitude" yaml:"latitude"`
	Longitude       float64 `json:"longitude" yaml:"longitude"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP, "google" for Google Pub/Sub, "noop" to disable
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	// VerifyPush validates the OIDC token on catalog push requests
	VerifyPush bool `json:"verifyPush" yaml:"verifyPush"`

	// PushAudience is the expected audience of push OIDC tokens
	PushAudience string `json:"pushAudience" yaml:"pushAudience"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	configFile, found := findConfigFile(searchPaths, currEnv+".yaml")
	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Env vars are mapped onto the existing YAML keys.
	// Example: FAVORITES_WRITETIMEOUT -> favorites.writeTimeout
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func findConfigFile(searchPaths []string, name string) (string, bool) {
	for _, path := range searchPaths {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	return "", false
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// applyDefaults fills omitted sections so the service can boot from a minimal file.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if cfg.Firebase == nil {
		cfg.Firebase = &FirebaseConfig{}
	}
	if cfg.Firebase.RestaurantsCollection == "" {
		cfg.Firebase.RestaurantsCollection = defaultRestaurantsCollection
	}
	if cfg.Firebase.UsersCollection == "" {
		cfg.Firebase.UsersCollection = defaultUsersCollection
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.Provider == "" {
		cfg.Auth.Provider = "firebase"
	}

	if cfg.Catalog == nil {
		cfg.Catalog = &CatalogConfig{}
	}
	if cfg.Catalog.Provider == "" {
		cfg.Catalog.Provider = "firestore"
	}
	if cfg.Catalog.RetryInterval <= 0 {
		cfg.Catalog.RetryInterval = defaultRetryInterval
	}

	if cfg.Discovery == nil {
		cfg.Discovery = &DiscoveryConfig{}
	}
	if cfg.Discovery.DefaultRadiusKm <= 0 {
		cfg.Discovery.DefaultRadiusKm = defaultRadiusKm
	}
	if cfg.Discovery.OpenPolicy == "" {
		cfg.Discovery.OpenPolicy = "hours"
	}
	if cfg.Discovery.TimeZone == "" {
		cfg.Discovery.TimeZone = defaultTimeZone
	}

	if cfg.Favorites == nil {
		cfg.Favorites = &FavoritesConfig{}
	}
	if cfg.Favorites.Store == "" {
		cfg.Favorites.Store = "firestore"
	}
	if cfg.Favorites.WriteTimeout <= 0 {
		cfg.Favorites.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Favorites.MaxSessions <= 0 {
		cfg.Favorites.MaxSessions = defaultMaxSessions
	}
	if cfg.Favorites.SessionTTL <= 0 {
		cfg.Favorites.SessionTTL = defaultSessionTTL
	}

	if cfg.Location == nil {
		cfg.Location = &LocationConfig{
			FallbackEnabled: true,
			Latitude:        defaultFallbackLatitude,
			Longitude:       defaultFallbackLongitude,
		}
	}

	if cfg.PubSub == nil {
		cfg.PubSub = &PubSubConfig{Provider: "noop"}
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
