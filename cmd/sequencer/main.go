package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common/hexutil"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/api"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/config"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/crypto"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/ingest"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/ingest/writer"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/pin"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/scores"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/valuation"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var home string
	root := &cobra.Command{
		Use:   "sequencer",
		Short: "Signed message sequencer for off-chain governance",
	}
	root.PersistentFlags().StringVar(&home, "home", "", "working directory (default $HOME/.sequencer)")
	root.AddCommand(newInitCmd(&home), newStartCmd(&home))
	return root
}

func newInitCmd(home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the working directory and relayer key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig(*home)
			if err := os.MkdirAll(filepath.Join(cfg.Home, "config"), 0o755); err != nil {
				return err
			}
			if _, err := os.Stat(cfg.RelayerKeyFile); err == nil {
				return fmt.Errorf("relayer key already exists at %s", cfg.RelayerKeyFile)
			}
			key, err := eth_crypto.GenerateKey()
			if err != nil {
				return err
			}
			hexKey := hexutil.Encode(eth_crypto.FromECDSA(key))
			if err := os.WriteFile(cfg.RelayerKeyFile, []byte(hexKey), 0o600); err != nil {
				return err
			}
			fmt.Printf("initialized %s, relayer address %s\n",
				cfg.Home, eth_crypto.PubkeyToAddress(key.PublicKey).Hex())
			return nil
		},
	}
}

func newStartCmd(home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the sequencer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*home)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
}

func run(cfg *config.Config) error {
	logger := log.NewLogger(os.Stdout)

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("open store: %v", err)
	}
	defer st.Close()

	var pinner pin.Pinner
	if cfg.PinURL != "" {
		pinner = pin.NewHTTPPinner(cfg.PinURL, logger)
	} else {
		lp, err := pin.OpenLevelPinner(cfg.PinPath)
		if err != nil {
			return fmt.Errorf("open pin store: %v", err)
		}
		defer lp.Close()
		pinner = lp
	}

	relayer, err := crypto.LoadFileRelayer(cfg.RelayerKeyFile)
	if err != nil {
		return fmt.Errorf("load relayer key (run init first): %v", err)
	}
	logger.Info("relayer loaded", "address", relayer.Address())

	oracle := scores.NewHTTPOracle(cfg.ScoresURL, logger)
	blocklist := ingest.NewBlocklist(cfg.Blocklist, logger)
	registry := writer.NewRegistry(st, oracle, writer.StaticOwnership(cfg.Controllers), cfg.Network, logger)
	validator := ingest.NewValidator(cfg.Domain.Name, cfg.Domain.Version, blocklist)
	seq := ingest.NewSequencer(st, registry, validator, crypto.EVMVerifier{}, pinner, relayer, logger)

	interval := time.Duration(cfg.Valuation.IntervalSec) * time.Second
	proposalPoller := valuation.NewProposalPoller(
		st, oracle, cfg.Valuation.BatchSize, interval, cfg.Valuation.FailureThreshold, logger)
	votePoller := valuation.NewVotePoller(st, cfg.Valuation.BatchSize, interval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go blocklist.Run(ctx)
	go proposalPoller.Run(ctx)
	go votePoller.Run(ctx)

	svc := api.NewService(seq, cfg.ListenAddr, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return svc.Shutdown(shutdownCtx)
}
