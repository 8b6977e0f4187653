package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"batch-ledger/internal/config"
	"batch-ledger/internal/gateway"
	"batch-ledger/internal/ledger"
	"batch-ledger/internal/logger"
	"batch-ledger/internal/usecase"

	"go.uber.org/zap"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s <old_master_accounts> <merged_transactions>\n", os.Args[0])
	}
	flag.Parse()

	// Validate positional arguments
	if flag.NArg() != 2 {
		fmt.Println("Error: the old master accounts file and the merged transaction file are required.")
		flag.Usage()
		os.Exit(2)
	}
	masterFile, transactionFile := flag.Arg(0), flag.Arg(1)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer zlog.Sync()

	limits, err := cfg.Limits()
	if err != nil {
		zlog.Fatal("invalid session limits", zap.Error(err))
	}

	// --- Dependency Injection (Wiring the application) ---
	// 1. Create the repository (the outermost layer)
	repo := gateway.NewFileRepository(
		gateway.NewCodec(cfg.Fill()),
		gateway.Options{
			SessionPolicy:     gateway.SessionPolicy(cfg.EndOfSession),
			CurrentActiveOnly: cfg.CurrentActiveOnly,
		},
		zlog,
	)

	// 2. Create the usecase and inject the repository (the core logic layer)
	settlement := usecase.NewSettlementUseCase(repo, usecase.Options{
		MasterOutputPath:  cfg.MasterOutputPath,
		CurrentOutputPath: cfg.CurrentOutputPath,
		Replay: ledger.ReplayOptions{
			TransferPolicy: ledger.TransferPolicy(cfg.TransferPolicy),
			EnforceLimits:  cfg.EnforceLimits,
			Limits:         limits,
		},
		FeePolicy: ledger.FeePolicy(cfg.FeePolicy),
	}, zlog)

	// --- Execute the Usecase ---
	report, err := settlement.Settle(context.Background(), masterFile, transactionFile)
	if err != nil {
		zlog.Error("settlement failed", zap.Error(err))
		zlog.Sync()
		os.Exit(1)
	}

	// --- Present the Output ---
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		zlog.Fatal("failed to generate JSON report", zap.Error(err))
	}

	fmt.Println(string(output))
}
