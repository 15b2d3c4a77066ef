// coinnoded runs a single peer-to-peer replicated ledger node: it loads or
// generates a wallet keypair, serves the REST wire surface spec'd for this
// node, and optionally runs a background proof-of-work mining loop.
//
// Usage:
//
//	coinnoded [--port 5000 --id node1] Run node
//	coinnoded --help                   Show help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhi0166/custom-crypto-coin/config"
	"github.com/abhi0166/custom-crypto-coin/internal/ledger/chain"
	klog "github.com/abhi0166/custom-crypto-coin/internal/log"
	"github.com/abhi0166/custom-crypto-coin/internal/mempool"
	"github.com/abhi0166/custom-crypto-coin/internal/node"
	"github.com/abhi0166/custom-crypto-coin/internal/peerset"
	"github.com/abhi0166/custom-crypto-coin/internal/rpc"
	"github.com/abhi0166/custom-crypto-coin/internal/wallet"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	logger := klog.WithComponent("node")

	ks := wallet.NewKeystore(cfg.KeystoreDir(), cfg.ID)
	w, err := loadOrGenerateWallet(ks)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up wallet keystore")
	}
	identity, err := w.PublicKeyPEM()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to read wallet identity")
	}

	c, err := chain.NewGenesis(float64(time.Now().Unix()))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build genesis chain")
	}

	n := node.New(w, c, mempool.New(), peerset.New(), cfg.Mining.AutoBroadcast)

	if len(cfg.Seeds) > 0 {
		added, failed := n.RegisterPeers(cfg.Seeds)
		logger.Info().
			Int("added", len(added)).
			Int("failed", len(failed)).
			Msg("Registered seed peers")
	}

	rpcAddr := fmt.Sprintf(":%d", cfg.Port)
	rpcServer := rpc.New(rpcAddr, n)
	if err := rpcServer.Start(); err != nil {
		logger.Fatal().Err(err).Str("addr", rpcAddr).Msg("Failed to start RPC server")
	}
	defer rpcServer.Stop()

	logger.Info().
		Str("addr", rpcServer.Addr()).
		Str("identity", identity[:40]+"...").
		Msg("Node started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Mining.Enabled {
		go runMiner(ctx, n, logger)
		logger.Info().Msg("Background mining loop enabled")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

	cancel()
	logger.Info().Msg("Goodbye!")
}

// loadOrGenerateWallet loads the keystore's wallet if one already exists on
// disk, otherwise generates a fresh key pair and persists it.
func loadOrGenerateWallet(ks *wallet.Keystore) (*wallet.Wallet, error) {
	if ks.Exists() {
		return ks.Load()
	}
	w, err := wallet.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate wallet: %w", err)
	}
	if err := ks.Save(w); err != nil {
		return nil, fmt.Errorf("save wallet: %w", err)
	}
	return w, nil
}

// runMiner mines continuously until ctx is cancelled, starting the next
// attempt as soon as a block is mined and pausing for one second only
// after a failed attempt.
func runMiner(ctx context.Context, n *node.Node, logger zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		mined, err := n.Mine(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Mining attempt failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		logger.Info().
			Int("index", mined.Header.Index).
			Int("txs", len(mined.Transactions)).
			Msg("Block mined")
	}
}
