package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time is used for sweep interval and hold expiry durations
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for the
// expiry sweep, ints for costs and TTLs.
type Config struct {
    Env           string // application environment (e.g. "dev", "prod")
    Port          string // HTTP port to listen on
    DBUser        string // database username
    DBPass        string // database password (optional)
    DBHost        string // database host address
    DBPort        string // database port number
    DBName        string // database name
    JWTSecret     string // secret used to sign admin JWTs
    AccessTTLMin  int    // admin access token time-to-live in minutes
    BcryptCost    int    // bcrypt cost for hashing the admin password
    AdminUser     string // admin login username
    AdminPassword string // admin login password (hashed at startup)

    StripeSecretKey  string // Stripe API secret key
    StripeSuccessURL string // URL the checkout redirects to on success
    StripeCancelURL  string // URL the checkout redirects to on cancellation

    SMTPHost    string // SMTP server host for ticket delivery
    SMTPPort    int    // SMTP server port
    EmailSender string // From address and SMTP username
    EmailPass   string // SMTP password

    SeatMapPath string // path to the seat map JSON file (empty = built-in map)

    SweepInterval time.Duration // how often the expiry sweep runs
    PendingTTL    time.Duration // how long a pending booking blocks its seats
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Sweep timings fall
// back to the defaults of the original deployment (a 300 second interval
// and a 5 minute hold).
func Load() Config {
    return Config{
        Env:           must("APP_ENV"),      // environment (dev/test/prod)
        Port:          must("APP_PORT"),     // port to bind the HTTP server
        DBUser:        must("DB_USER"),      // database user
        DBPass:        os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:        must("DB_HOST"),      // database host
        DBPort:        must("DB_PORT"),      // database port
        DBName:        must("DB_NAME"),      // database name
        JWTSecret:     must("JWT_SECRET"),   // secret used for signing admin JWTs
        AccessTTLMin:  mustInt("ACCESS_TOKEN_TTL_MIN"),
        BcryptCost:    mustInt("BCRYPT_COST"),
        AdminUser:     must("ADMIN_USER"),     // admin account name
        AdminPassword: must("ADMIN_PASSWORD"), // admin account password

        StripeSecretKey:  must("STRIPE_SECRET_KEY"),
        StripeSuccessURL: must("STRIPE_SUCCESS_URL"),
        StripeCancelURL:  must("STRIPE_CANCEL_URL"),

        SMTPHost:    must("SMTP_HOST"),
        SMTPPort:    mustInt("SMTP_PORT"),
        EmailSender: must("EMAIL_SENDER"),
        EmailPass:   os.Getenv("EMAIL_PASSWORD"), // empty disables SMTP auth

        SeatMapPath: os.Getenv("SEATMAP_PATH"), // optional seat map override

        SweepInterval: envDur("SWEEP_INTERVAL", 300*time.Second),
        PendingTTL:    envDur("PENDING_TTL", 5*time.Minute),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// Helper functions shared by the rate limit and cache configs.
func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envBool(k string, d bool) bool {
    switch os.Getenv(k) {
    case "1", "true", "TRUE", "True", "yes", "on":
        return true
    case "0", "false", "FALSE", "False", "no", "off":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if dur, err := time.ParseDuration(v); err == nil {
        return dur
    }
    return d
}
