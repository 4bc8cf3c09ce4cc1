package config

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	Env              string

	BackendURL     string
	BackendTimeout time.Duration
	ScienerBaseURL string
	ScienerTimeout time.Duration

	// DBUrl is optional; without it the passcode ledger is disabled.
	DBUrl           string
	DBEncryptionKey []byte

	RSAPrivateKey        *rsa.PrivateKey
	RSAPublicKey         *rsa.PublicKey
	SessionEncryptionKey []byte
	SessionTTL           time.Duration

	SendgridAPIKey   string
	TwilioAccountSID string
	TwilioAuthToken  string

	ReconcileCronSpec    string
	ReconcileGracePeriod time.Duration
	ReconcileBatchSize   int

	RateLimitRPS   float64
	RateLimitBurst int

	// Feature-flag snapshots
	LDFlag_CORSHighSecurity           bool
	LDFlag_SendGuestAccessEmail       bool
	LDFlag_SendGuestAccessSMS         bool
	LDFlag_SendgridFromEmail          string
	LDFlag_SendgridSandboxMode        bool
	LDFlag_TwilioFromPhone            string
	LDFlag_OverlapGuard               bool
	LDFlag_ReconcileOrphanedPasscodes bool
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second

	DefaultSessionTTL           = 7 * 24 * time.Hour
	DefaultReconcileCronSpec    = "@every 1m"
	DefaultReconcileGracePeriod = 10 * time.Minute
	DefaultReconcileBatchSize   = 50
)

// build-time overrides, set with -ldflags
var (
	AppName             string
	LDServerContextKey  string
	LDServerContextKind string
)

// LedgerEnabled reports whether a Postgres URL was configured.
func (c *Config) LedgerEnabled() bool {
	return c.DBUrl != ""
}

func LoadConfig() *Config {
	//----------------------------------------------------------------------
	// 1) .env (local runs only) and ldflags
	//----------------------------------------------------------------------
	if err := godotenv.Load(); err == nil {
		utils.Logger.Debug("Loaded .env file")
	}
	if AppName == "" {
		AppName = os.Getenv("APP_NAME")
	}
	if AppName == "" {
		utils.Logger.Fatal("AppName was not provided via ldflags or APP_NAME")
	}
	if LDServerContextKey == "" {
		LDServerContextKey = AppName
	}
	if LDServerContextKind == "" {
		LDServerContextKind = "service"
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	//----------------------------------------------------------------------
	// 2) Runtime environment vars
	//----------------------------------------------------------------------
	env := mustEnv("ENV")
	appPort := mustEnv("APP_PORT")
	appURL := mustEnv("APP_URL_FROM_ANYWHERE")
	backendURL := mustEnv("BACKEND_URL")
	scienerURL := os.Getenv("SCIENER_API_BASE_URL")

	//----------------------------------------------------------------------
	// 3) Secrets: BWS when configured, otherwise plain env vars
	//----------------------------------------------------------------------
	secrets := loadSecrets(env)

	var dbEncKey []byte
	dbURL := secrets.get("DB_URL")
	if dbURL != "" {
		dbEncKey = mustDecodeKey(secrets.mustGet("DB_ENCRYPTION_KEY_BASE64"), "DB_ENCRYPTION_KEY_BASE64")
	} else {
		utils.Logger.Warn("DB_URL not set; passcode ledger and reconciliation are disabled")
	}

	privateKey, publicKey := loadRSAKeys(secrets)

	sessionSecret := secrets.mustGet("SESSION_SECRET")
	sessionKey, err := utils.DeriveKey(sessionSecret, AppName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to derive session encryption key")
	}

	//----------------------------------------------------------------------
	// 4) LaunchDarkly flags, with env defaults when LD is not configured
	//----------------------------------------------------------------------
	flags := newFlagSource(secrets.get("LD_SDK_KEY"))
	defer flags.close()

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
		AppPort:          appPort,
		AppUrl:           appURL,
		Env:              env,

		BackendURL:     backendURL,
		BackendTimeout: envDuration("BACKEND_TIMEOUT", 20*time.Second),
		ScienerBaseURL: scienerURL,
		ScienerTimeout: envDuration("SCIENER_TIMEOUT", 15*time.Second),

		DBUrl:           dbURL,
		DBEncryptionKey: dbEncKey,

		RSAPrivateKey:        privateKey,
		RSAPublicKey:         publicKey,
		SessionEncryptionKey: sessionKey,
		SessionTTL:           envDuration("SESSION_TTL", DefaultSessionTTL),

		SendgridAPIKey:   secrets.get("SENDGRID_API_KEY"),
		TwilioAccountSID: secrets.get("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  secrets.get("TWILIO_AUTH_TOKEN"),

		ReconcileCronSpec:    utils.FirstNonEmpty(os.Getenv("RECONCILE_CRON_SPEC"), DefaultReconcileCronSpec),
		ReconcileGracePeriod: envDuration("RECONCILE_GRACE_PERIOD", DefaultReconcileGracePeriod),
		ReconcileBatchSize:   envInt("RECONCILE_BATCH_SIZE", DefaultReconcileBatchSize),

		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 10),

		LDFlag_CORSHighSecurity:           flags.boolFlag("using_is_cors_high_security", true),
		LDFlag_SendGuestAccessEmail:       flags.boolFlag("send_guest_access_email", false),
		LDFlag_SendGuestAccessSMS:         flags.boolFlag("send_guest_access_sms", false),
		LDFlag_SendgridFromEmail:          flags.stringFlag("sendgrid_from_email", ""),
		LDFlag_SendgridSandboxMode:        flags.boolFlag("sendgrid_sandbox_mode", false),
		LDFlag_TwilioFromPhone:            flags.stringFlag("twilio_from_phone", ""),
		LDFlag_OverlapGuard:               flags.boolFlag("scheduling_overlap_guard", false),
		LDFlag_ReconcileOrphanedPasscodes: flags.boolFlag("reconcile_orphaned_passcodes", true),
	}

	if cfg.LDFlag_SendGuestAccessEmail && (cfg.SendgridAPIKey == "" || cfg.LDFlag_SendgridFromEmail == "") {
		utils.Logger.Warn("send_guest_access_email is on but SendGrid is not configured; disabling")
		cfg.LDFlag_SendGuestAccessEmail = false
	}
	if cfg.LDFlag_SendGuestAccessSMS && (cfg.TwilioAccountSID == "" || cfg.LDFlag_TwilioFromPhone == "") {
		utils.Logger.Warn("send_guest_access_sms is on but Twilio is not configured; disabling")
		cfg.LDFlag_SendGuestAccessSMS = false
	}

	utils.Logger.Infof("Loaded config for %s (%s)", AppName, env)
	return cfg
}

func (c *Config) Close() {
}

/* ───────────── secrets ───────────── */

type secretSource struct {
	app    map[string]string
	shared map[string]string
}

func loadSecrets(env string) secretSource {
	if os.Getenv("BWS_ACCESS_TOKEN") == "" {
		utils.Logger.Info("BWS_ACCESS_TOKEN not set; reading secrets from the environment")
		return secretSource{}
	}

	client, err := utils.NewBWSSecretsClient()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Init BWS client")
	}
	defer client.Close()

	bwsProjectName := fmt.Sprintf("%s-%s", AppName, env)
	appSecrets, err := client.GetBWSSecrets(bwsProjectName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Fetch BWS secrets")
	}

	utils.Logger.Debugf("Fetching shared secrets from BWS for %s-%s", "shared", env)
	sharedSecrets, err := client.GetBWSSecrets(fmt.Sprintf("shared-%s", env))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to fetch shared secrets from BWS")
	}
	return secretSource{app: appSecrets, shared: sharedSecrets}
}

// get looks in the app project, then the shared project, then the env.
func (s secretSource) get(key string) string {
	if v := s.app[key]; v != "" {
		return v
	}
	if v := s.shared[key]; v != "" {
		return v
	}
	return os.Getenv(key)
}

func (s secretSource) mustGet(key string) string {
	v := s.get(key)
	if v == "" {
		utils.Logger.Fatalf("%s not found in BWS secrets or environment", key)
	}
	return v
}

func loadRSAKeys(s secretSource) (*rsa.PrivateKey, *rsa.PublicKey) {
	privatePEM, err := base64.StdEncoding.DecodeString(s.mustGet("RSA_PRIVATE_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode RSA private key")
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}

	pubB64 := s.get("RSA_PUBLIC_KEY_BASE64")
	if pubB64 == "" {
		return privateKey, &privateKey.PublicKey
	}
	publicPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode RSA public key")
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}
	return privateKey, publicKey
}

func mustDecodeKey(b64, name string) []byte {
	key, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("Failed to decode %s", name)
	}
	if len(key) != 32 {
		utils.Logger.Fatalf("%s must be 32 bytes for AES-256 encryption", name)
	}
	return key
}

/* ───────────── feature flags ───────────── */

type flagSource struct {
	client *ld.LDClient
	ctx    ldcontext.Context
}

func newFlagSource(sdkKey string) *flagSource {
	fs := &flagSource{ctx: ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)}
	if sdkKey == "" {
		utils.Logger.Info("LD_SDK_KEY not set; feature flags come from FLAG_* env vars")
		return fs
	}

	client, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !client.Initialized() {
		client.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	fs.client = client
	return fs
}

func (f *flagSource) close() {
	if f.client != nil {
		f.client.Close()
	}
}

func (f *flagSource) boolFlag(key string, def bool) bool {
	if f.client == nil {
		if raw := os.Getenv(flagEnvName(key)); raw != "" {
			if v, err := strconv.ParseBool(raw); err == nil {
				def = v
			}
		}
		utils.Logger.Debugf("%s flag (env): %t", key, def)
		return def
	}
	v, err := f.client.BoolVariation(key, f.ctx, def)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("%s flag error", key)
	}
	utils.Logger.Debugf("%s flag: %t", key, v)
	return v
}

func (f *flagSource) stringFlag(key, def string) string {
	if f.client == nil {
		v := utils.FirstNonEmpty(os.Getenv(flagEnvName(key)), def)
		utils.Logger.Debugf("%s flag (env): %s", key, v)
		return v
	}
	v, err := f.client.StringVariation(key, f.ctx, def)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("%s flag error", key)
	}
	utils.Logger.Debugf("%s flag: %s", key, v)
	return v
}

// flagEnvName maps "scheduling_overlap_guard" to "FLAG_SCHEDULING_OVERLAP_GUARD".
func flagEnvName(key string) string {
	return "FLAG_" + strings.ToUpper(key)
}

/* ───────────── env helpers ───────────── */

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", key)
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		utils.Logger.WithError(err).Warnf("Invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		utils.Logger.Warnf("Invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		utils.Logger.Warnf("Invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return f
}
