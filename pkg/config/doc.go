// Package config provides configuration management for the Odoo SDK.
//
// This package defines the Config structure that controls all SDK behavior:
// the server location and credentials, the rate limit between calls, the
// retry policy for transient connection faults, and transport timeouts.
//
// # Basic Configuration
//
// Four fields are required:
//
//	cfg := &config.Config{
//		URL:      "https://erp.example.com",
//		Database: "prod",
//		Username: "integration@example.com",
//		APIKey:   "YOUR_API_KEY",
//	}
//
// # Loading
//
// Settings can come from a YAML file, the environment, or both:
//
//	fileCfg, err := config.Load("odoo.yaml")
//	if err != nil {
//		return err
//	}
//	cfg := fileCfg.Merge(config.FromEnv(nil))
//
// FromEnv reads ODOO_URL, ODOO_DB, ODOO_USERNAME, ODOO_API_KEY and ODOO_DEBUG.
// The API key may also be kept in the OS keychain, see package secrets.
//
// # Tunables
//
//	cfg.RateLimit.MinInterval = 200 * time.Millisecond // default 100ms
//	cfg.Retry.MaxRetries = 5                           // default 3
//	cfg.Retry.Delay = time.Second                      // default 500ms, linear
//	cfg.Timeouts = config.Timeouts{
//		Dial:     5 * time.Second,   // default 10s
//		Call:     60 * time.Second,  // default 120s
//		Mutation: 600 * time.Second, // default 300s, sent to the server
//	}
//
// Zero values are replaced with defaults by Validate.
//
// # Configuration Validation
//
// Validate checks the required fields and the URL scheme and returns an
// rpcerr configuration error naming the offending field:
//
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
//
// # Thread Safety
//
// Config instances should be created once and not modified after passing to
// sdk.NewSDK(). The Config is read-only during SDK operations.
package config
