package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/erp/mws-connector/internal/infrastructure/auth"
	"github.com/erp/mws-connector/internal/infrastructure/config"
	"github.com/erp/mws-connector/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func main() {
	var (
		subject string
		scopes  string
		ttl     time.Duration
	)
	flag.StringVar(&subject, "subject", "", "Client name recorded as the token subject (required)")
	flag.StringVar(&scopes, "scopes", auth.ScopeRead, "Comma separated scopes: mws:read, mws:export, mws:admin")
	flag.DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	granted, err := parseScopes(scopes)
	if err != nil {
		log.Fatal("Invalid scopes", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	token, expiresAt, err := auth.NewJWTService(cfg.JWT).GenerateToken(subject, granted, ttl)
	if err != nil {
		log.Fatal("Failed to generate token", zap.Error(err))
	}
	log.Info("Token issued",
		zap.String("subject", subject),
		zap.Strings("scopes", granted),
		zap.Time("expires_at", expiresAt),
	)
	fmt.Println(token)
}

func parseScopes(raw string) ([]string, error) {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		switch s {
		case "":
			continue
		case auth.ScopeRead, auth.ScopeExport, auth.ScopeAdmin:
			out = append(out, s)
		default:
			return nil, fmt.Errorf("unknown scope %q", s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one scope is required")
	}
	return out, nil
}
