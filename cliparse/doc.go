// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadDotEnv reads a .env file (if present) into the environment, then
ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadDotEnv(); err != nil {
		// malformed .env
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Connection string (default: file:crocante.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSalt: Secret for session tokens and order codes (required)
  - CatalogPath: Menu YAML, watched for changes (default: built-in menu)
  - DataDir: Per-visitor storage directory (default: data)
  - CheckoutMode: store, api or whatsapp (default: store)
  - OrderAPIURL: Order endpoint base URL (required for api)
  - WhatsAppPhone: Destination number (required for whatsapp)
  - CEPBaseURL: ViaCEP base URL
  - CarouselInterval, CarouselResumeDelay: carousel timing (8s, 15s)
  - SessionTTL: Idle session lifetime (default: 2h)

# CLI Flags

	-p                  Server port
	-d                  Database URL
	-t                  Database type
	-salt               Session salt
	-catalog            Catalog file
	-data               Data directory
	-checkout           Checkout mode
	-order-api          Order API base URL
	-whatsapp           WhatsApp phone
	-cep-url            ViaCEP base URL
	-carousel-interval  Auto-advance period
	-resume-delay       Resume delay
	-review-interval    Review rotation period
	-session-ttl        Session lifetime

# Environment Variables

Flags fall back to environment variables:

	PORT                   → -p
	DATABASE_URL           → -d
	DATABASE_TYPE          → -t
	SESSION_SALT           → -salt
	CATALOG_PATH           → -catalog
	DATA_DIR               → -data
	CHECKOUT_MODE          → -checkout
	ORDER_API_URL          → -order-api
	WHATSAPP_PHONE         → -whatsapp
	CEP_BASE_URL           → -cep-url
	CAROUSEL_INTERVAL      → -carousel-interval
	CAROUSEL_RESUME_DELAY  → -resume-delay
	REVIEW_INTERVAL        → -review-interval
	SESSION_TTL            → -session-ttl

CLI flags take precedence over environment variables, which take precedence
over .env entries.
*/
package cliparse
