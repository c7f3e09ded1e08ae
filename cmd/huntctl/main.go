package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/bonushunt-services/configs"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/db"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/handlers"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/service"
	"github.com/avvvet/bonushunt-services/internal/huntsvc/store"
)

const SERVICE_NAME = "ctl"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

const usage = `usage: huntctl [-timeout 2m] [-ttl 24h] <command> [args]

commands:
  migrate                 apply pending schema migrations
  sweep-sessions          delete expired admin sessions
  import-slots <file>     replace the slot catalog with a JSON file
  service-token           print a JWT for the /v1 service routes (uses -ttl)
`

type command struct {
	name    string
	file    string
	timeout time.Duration
	ttl     time.Duration
}

var errUsage = errors.New("bad usage")

func parseCommand(args []string) (command, error) {
	fs := flag.NewFlagSet("huntctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var cmd command
	fs.DurationVar(&cmd.timeout, "timeout", 2*time.Minute, "overall deadline")
	fs.DurationVar(&cmd.ttl, "ttl", 24*time.Hour, "service token lifetime")
	if err := fs.Parse(args); err != nil {
		return command{}, fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return command{}, errUsage
	}
	cmd.name = rest[0]

	switch cmd.name {
	case "migrate", "sweep-sessions", "service-token":
		if len(rest) != 1 {
			return command{}, fmt.Errorf("%w: %s takes no arguments", errUsage, cmd.name)
		}
	case "import-slots":
		if len(rest) != 2 {
			return command{}, fmt.Errorf("%w: import-slots needs a file", errUsage)
		}
		cmd.file = rest[1]
	default:
		return command{}, fmt.Errorf("%w: unknown command %q", errUsage, cmd.name)
	}
	return cmd, nil
}

// readSlots accepts either {"slots":[...]} or a bare array of slots.
func readSlots(r io.Reader) (service.ImportSlotsInput, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return service.ImportSlotsInput{}, err
	}

	var in service.ImportSlotsInput
	if err := json.Unmarshal(raw, &in.Slots); err != nil {
		if err := json.Unmarshal(raw, &in); err != nil {
			return service.ImportSlotsInput{}, fmt.Errorf("decode slots: %w", err)
		}
	}

	if err := validator.New().Struct(in); err != nil {
		return service.ImportSlotsInput{}, fmt.Errorf("invalid slots file: %w", err)
	}
	return in, nil
}

// serviceToken signs a token the /v1 routes of both services accept.
func serviceToken(secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET_KEY is required")
	}
	h := handlers.NewHandler(handlers.Services{}, "", "")
	h.InitAuth(secret)
	return h.ServiceToken(ttl)
}

func main() {
	cmd, err := parseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	if cmd.name == "service-token" {
		token, err := serviceToken(cfg.JWTSecret, cmd.ttl)
		if err != nil {
			log.Errorf("huntctl %s failed: %v", cmd.name, err)
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmd.timeout)
	defer cancel()

	if err := run(ctx, cmd, cfg); err != nil {
		log.Errorf("huntctl %s failed: %v", cmd.name, err)
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd command, cfg config.Config) error {
	if cmd.name == "migrate" {
		if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
		fmt.Println("migrations applied")
		return nil
	}

	// pg connection
	dbpool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.ClosePool()

	metaStore := store.NewMetaStore(dbpool)

	switch cmd.name {
	case "sweep-sessions":
		sessions := service.NewSessionService(store.NewSessionStore(dbpool), metaStore, cfg.AdminKey, cfg.SessionTTL)
		n, err := sessions.Sweep(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d expired sessions\n", n)
	case "import-slots":
		f, err := os.Open(cmd.file)
		if err != nil {
			return err
		}
		defer f.Close()

		in, err := readSlots(f)
		if err != nil {
			return err
		}

		slots := service.NewSlotService(store.NewSlotStore(dbpool), metaStore)
		n, err := slots.Import(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d slots\n", n)
	}
	return nil
}
