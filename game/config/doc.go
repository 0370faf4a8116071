// Package config provides server configuration for the game.
//
// The config package handles:
//   - Loading .env files into the process environment
//   - Parsing environment variables into a typed Config
//   - Validating listen settings
//
// Environment Variables:
//
//	HOST              listen host (default localhost)
//	PORT              listen port (default 8080)
//	STATIC_DIR        directory served at /, disabled when empty
//	DEBUG             add file:line to log output
//	NGROK_ENABLED     expose the server through an ngrok tunnel
//	NGROK_AUTHTOKEN   ngrok auth token (NGROK_AUTH_TOKEN also accepted)
//	NGROK_DOMAIN      reserved ngrok domain (optional)
//	GRIDDUEL_API_URL  server the mcp command talks to (optional)
//
// Values already present in the environment win over .env entries, and
// command line flags win over both.
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	http.ListenAndServe(cfg.Addr(), handler)
package config
