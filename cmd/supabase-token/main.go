package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/supabase-token/internal/auth"
	"github.com/Chapsvision-dev/supabase-token/internal/config"
	"github.com/Chapsvision-dev/supabase-token/internal/logx"
	"github.com/Chapsvision-dev/supabase-token/internal/store"
	"github.com/Chapsvision-dev/supabase-token/internal/version"

	_ "github.com/Chapsvision-dev/supabase-token/internal/store/azure"
	_ "github.com/Chapsvision-dev/supabase-token/internal/store/file"
	_ "github.com/Chapsvision-dev/supabase-token/internal/store/redis"
)

// Test seams, overridden in unit tests. Keep signatures in sync with packages.
var (
	loadConfig func() (config.Config, error)                             = config.Load
	newStore   func(name string, cfg config.Config) (store.Store, error) = store.New
	exit       func(int)                                                 = os.Exit
)

const usage = `
Usage:
  supabase-token                     print the current session's access token
  supabase-token version | --version | -v
  supabase-token help    | --help    | -h

Notes:
  - Project: SUPABASE_URL, SUPABASE_ANON_KEY (placeholders by default),
    SUPABASE_STORAGE_KEY (default sb-<project-ref>-auth-token).
  - Session store is selected with SESSION_STORE: file (default), azure, redis.
      file : SESSION_FILE_DIR (default <user config dir>/supabase)
      azure: AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_CONTAINER, AZURE_STORAGE_SAS,
             SESSION_BLOB_PREFIX
      redis: REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX
  - LOOKUP_TIMEOUT bounds the session lookup (default 15s).
  - Logs go to stderr (LOG_LEVEL, LOG_FORMAT); stdout only carries the token.
`

// main wires config -> store -> auth client -> one session lookup.
// Exit codes: 0 success (token or empty line), 1 runtime error, 2 usage error.
func main() {
	_ = godotenv.Load() // best-effort
	logx.InitFromEnv()

	if args := os.Args[1:]; len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "version", "--version", "-v":
			fmt.Println(version.Info())
			exit(0)
			return
		case "help", "--help", "-h":
			fmt.Print(usage)
			exit(0)
			return
		default:
			fmt.Fprint(os.Stderr, usage)
			exit(2)
			return
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Error().Err(err).Msg("config error")
		exit(1)
		return
	}

	st, err := newStore(cfg.Store, cfg)
	if err != nil {
		log.Error().Err(err).Str("store", cfg.Store).Msg("session store init error")
		exit(1)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("store", st.Name()).Msg("failed to close session store")
		}
	}()

	client, err := auth.NewClient(cfg, st)
	if err != nil {
		log.Error().Err(err).Msg("auth client init error")
		exit(1)
		return
	}

	ctx, cancel := withSignals(context.Background())
	defer cancel()
	if cfg.LookupTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.LookupTimeout)
		defer cancel()
	}

	start := time.Now()
	session, err := client.GetSession(ctx)
	if err != nil {
		log.Error().Err(err).Str("action", "get_session").Str("store", st.Name()).Msg("error getting session")
		exit(1)
		return
	}

	// A missing session or token prints an empty line and still exits 0.
	var token string
	if session != nil {
		token = string(session.AccessToken)
	}
	log.Debug().
		Str("action", "get_session").
		Str("store", st.Name()).
		Bool("has_session", session != nil).
		Bool("has_token", token != "").
		Dur("elapsed_ms", time.Since(start)).
		Msg("session lookup OK")

	fmt.Println(token)
}

func withSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
