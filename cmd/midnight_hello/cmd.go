package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AlexZinkM/midnight-hello/docs"
	"github.com/AlexZinkM/midnight-hello/internal/api"
	"github.com/AlexZinkM/midnight-hello/internal/cli"
	"github.com/AlexZinkM/midnight-hello/internal/client"
	"github.com/AlexZinkM/midnight-hello/internal/config"
	"github.com/AlexZinkM/midnight-hello/internal/contract"
	"github.com/AlexZinkM/midnight-hello/internal/crypto"
	"github.com/AlexZinkM/midnight-hello/internal/handler"
	"github.com/AlexZinkM/midnight-hello/internal/model"
	"github.com/AlexZinkM/midnight-hello/internal/wallet"
)

// Version is set at build time
var Version string

const (
	defaultCLILogFile = "midnight-hello-cli.log"
	sessionCacheSize  = 1024
)

// NewCmd builds the command tree
func NewCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "midnight-hello",
		Short:         "Store and read a message on a Midnight contract.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return config.Init()
		},
	}

	root.AddCommand(newCLICmd(), newServeCmd(), newSealSeedCmd())
	return root
}

func newCLICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cli",
		Short: "Interactive menu: build and sync a wallet, then store and read messages.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get()

			logFile := cfg.LogFile
			if logFile == "" {
				logFile = defaultCLILogFile
			}
			logger, err := config.NewLogger(cfg.LogLevel, logFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			in := cli.NewLineReader(os.Stdin, os.Stdout)
			defer in.Close()

			app := cli.NewApp(cfg, cli.Deps{
				Wallet:  client.NewWalletClient(cfg.WalletRPCURL),
				Indexer: client.NewIndexerClient(cfg.IndexerURL),
				Subscribe: func(ctx context.Context) (cli.Subscription, error) {
					sub, err := client.SubscribeState(ctx, cfg.WalletWSURL)
					if err != nil {
						return nil, err
					}
					return sub, nil
				},
			}, in, os.Stdout, logger)

			return app.Run(ctx)
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web front end and its JSON API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get()

			logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := setSwaggerHost(cfg.APIURL); err != nil {
				return err
			}

			sessions, err := handler.NewSessionStore(sessionCacheSize)
			if err != nil {
				return fmt.Errorf("failed to create session store: %w", err)
			}

			h := handler.NewMidnightHandler(
				wallet.NewAdapter(client.NewWalletClient(cfg.WalletRPCURL), logger),
				contract.NewClient(client.NewIndexerClient(cfg.IndexerURL)),
				sessions,
				cfg.DeploymentPath,
				logger,
			)

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           api.SetupRouter(h, cfg.AllowedOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("apiUrl", cfg.APIURL))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// setSwaggerHost points the API document at the public API_URL
func setSwaggerHost(apiURL string) error {
	u, err := url.Parse(apiURL)
	if err != nil {
		return fmt.Errorf("invalid API_URL: %w", err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid API_URL %q: expected http(s)://host[:port]", apiURL)
	}
	docs.SwaggerInfo.Host = u.Host
	docs.SwaggerInfo.Schemes = []string{u.Scheme}
	return nil
}

func newSealSeedCmd() *cobra.Command {
	var (
		out     string
		address string
	)

	cmd := &cobra.Command{
		Use:   "seal-seed",
		Short: "Encrypt a wallet seed into a password protected " + crypto.SeedFileExt + " file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get()
			if out == "" {
				out = cfg.WalletSeedFile
			}
			if out == "" {
				return errors.New("output file required: pass --out or set WALLET_SEED_FILE")
			}
			return sealSeed(cmd, cfg, out, address, config.PromptSecret)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Destination "+crypto.SeedFileExt+" file (default WALLET_SEED_FILE).")
	cmd.Flags().StringVar(&address, "address", "", "Wallet address stored unencrypted next to the seed, with its QR code.")
	return cmd
}

// sealSeed reads the seed and password, then writes the encrypted seed file
func sealSeed(cmd *cobra.Command, cfg *config.Config, out, address string, prompt func(string) ([]byte, error)) error {
	seed := []byte(cfg.WalletSeed)
	if len(seed) == 0 {
		var err error
		if seed, err = prompt("wallet seed"); err != nil {
			return err
		}
	}
	defer clear(seed)

	password, err := prompt("password")
	if err != nil {
		return err
	}
	defer clear(password)

	confirm, err := prompt("password again")
	if err != nil {
		return err
	}
	defer clear(confirm)

	if string(password) != string(confirm) {
		return errors.New("passwords do not match")
	}

	var qr string
	if address != "" {
		png, err := qrcode.Encode(address, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("failed to create QR code: %w", err)
		}
		qr = base64.StdEncoding.EncodeToString(png)
	}

	data := &model.SeedData{Seed: seed, CreatedAt: time.Now().UTC().Format(time.RFC3339)}
	if err := crypto.EncryptSeed(out, cfg.NetworkID, address, qr, data, password); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seed sealed to %s\n", out)
	return nil
}
