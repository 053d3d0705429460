package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/crocante/models"
)

const (
	DefaultPort             = 3318
	DefaultDatabaseURL      = "file:crocante.db"
	DefaultDataDir          = "data"
	DefaultCEPBaseURL       = "https://viacep.com.br"
	DefaultCarouselInterval = 8 * time.Second
	DefaultResumeDelay      = 15 * time.Second
	DefaultReviewInterval   = 5 * time.Second
	DefaultSessionTTL       = 2 * time.Hour
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	SessionSalt  string

	CatalogPath string
	DataDir     string

	CheckoutMode  string
	OrderAPIURL   string
	WhatsAppPhone string
	CEPBaseURL    string

	CarouselInterval    time.Duration
	CarouselResumeDelay time.Duration
	ReviewInterval      time.Duration
	SessionTTL          time.Duration
}

// LoadDotEnv loads .env style files into the environment without overriding
// variables already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fset := flag.NewFlagSet("crocante", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fset.IntVar(&cfg.Port, "p", 0, "Server port")
	fset.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fset.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fset.StringVar(&cfg.SessionSalt, "salt", "", "Session signing salt (prefer env)")

	fset.StringVar(&cfg.CatalogPath, "catalog", "", "Catalog YAML file (built-in menu when empty)")
	fset.StringVar(&cfg.DataDir, "data", "", "Directory for visitor storage")
	fset.StringVar(&cfg.CheckoutMode, "checkout", "", "Checkout mode (store, api or whatsapp)")
	fset.StringVar(&cfg.OrderAPIURL, "order-api", "", "Base URL of the order API for api checkout")
	fset.StringVar(&cfg.WhatsAppPhone, "whatsapp", "", "Destination phone for whatsapp checkout")
	fset.StringVar(&cfg.CEPBaseURL, "cep-url", "", "ViaCEP base URL")

	fset.DurationVar(&cfg.CarouselInterval, "carousel-interval", 0, "Carousel auto-advance period")
	fset.DurationVar(&cfg.CarouselResumeDelay, "resume-delay", 0, "Carousel resume delay after interaction")
	fset.DurationVar(&cfg.ReviewInterval, "review-interval", 0, "Time each customer review stays on screen")
	fset.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Idle session lifetime")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	stringFallback(&cfg.DatabaseURL, "DATABASE_URL", DefaultDatabaseURL)
	stringFallback(&cfg.DatabaseType, "DATABASE_TYPE", "sqlite")
	switch cfg.DatabaseType {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	stringFallback(&cfg.SessionSalt, "SESSION_SALT", "")
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	stringFallback(&cfg.CatalogPath, "CATALOG_PATH", "")
	stringFallback(&cfg.DataDir, "DATA_DIR", DefaultDataDir)
	stringFallback(&cfg.CEPBaseURL, "CEP_BASE_URL", DefaultCEPBaseURL)

	stringFallback(&cfg.CheckoutMode, "CHECKOUT_MODE", models.CheckoutStore)
	stringFallback(&cfg.OrderAPIURL, "ORDER_API_URL", "")
	stringFallback(&cfg.WhatsAppPhone, "WHATSAPP_PHONE", "")
	switch cfg.CheckoutMode {
	case models.CheckoutStore:
	case models.CheckoutAPI:
		if cfg.OrderAPIURL == "" {
			return Config{}, errors.New("ORDER_API_URL required for api checkout")
		}
	case models.CheckoutWhatsApp:
		if cfg.WhatsAppPhone == "" {
			return Config{}, errors.New("WHATSAPP_PHONE required for whatsapp checkout")
		}
	default:
		return Config{}, fmt.Errorf("unsupported CHECKOUT_MODE %q", cfg.CheckoutMode)
	}

	var err error
	if cfg.CarouselInterval, err = durationFallback(cfg.CarouselInterval, "CAROUSEL_INTERVAL", DefaultCarouselInterval); err != nil {
		return Config{}, err
	}
	if cfg.CarouselResumeDelay, err = durationFallback(cfg.CarouselResumeDelay, "CAROUSEL_RESUME_DELAY", DefaultResumeDelay); err != nil {
		return Config{}, err
	}
	if cfg.ReviewInterval, err = durationFallback(cfg.ReviewInterval, "REVIEW_INTERVAL", DefaultReviewInterval); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationFallback(cfg.SessionTTL, "SESSION_TTL", DefaultSessionTTL); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func stringFallback(v *string, env, def string) {
	if *v != "" {
		return
	}
	*v = os.Getenv(env)
	if *v == "" {
		*v = def
	}
}

func durationFallback(v time.Duration, env string, def time.Duration) (time.Duration, error) {
	if v > 0 {
		return v, nil
	}
	raw := os.Getenv(env)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", env)
	}
	return d, nil
}
