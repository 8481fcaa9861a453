// Package main provides a CLI for inspecting and repairing partition counters.
// Usage: sequence peek --scheme student --prefix BT --year 2023 --subtype F
//
//	sequence set  --scheme employee --year 2023 --subtype T --value 41
//	sequence sync --scheme student --prefix BT --year 2023 --subtype F
package main

import (
	"context"
	"fmt"
	"os"

	coresequence "edumaster/internal/core/sequence"
	"edumaster/internal/infrastructure/sequence"
	"edumaster/internal/infrastructure/storage/postgres"
	"edumaster/internal/infrastructure/storage/postgres/person_repo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "peek":
		run(ctx, os.Args[2:], peek)
	case "set":
		run(ctx, os.Args[2:], set)
	case "sync":
		run(ctx, os.Args[2:], sync)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Partition counter CLI

Usage:
  sequence <command> [options]

Commands:
  peek   Show the last issued number of a partition
  set    Overwrite the last issued number of a partition
  sync   Raise the counter to the greatest number found in person records
  help   Show this help

Options:
  --scheme   student | employee (required)
  --prefix   course code, students only
  --year     calendar year of admission or joining (required)
  --subtype  admission type or employee type (required)
  --value    last issued number, set only

Environment Variables:
  DATABASE_URL   Connection string (required)

Examples:
  sequence peek --scheme student --prefix BT --year 2023 --subtype F
  sequence set --scheme employee --year 2023 --subtype T --value 41
  sequence sync --scheme student --prefix BT --year 2023 --subtype F`)
}

type command func(ctx context.Context, env *env, a args) error

type env struct {
	counters *sequence.Service
	records  *coresequence.LookupCounter
}

func run(ctx context.Context, argv []string, cmd command) {
	a, err := parseArgs(argv)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("Error: DATABASE_URL environment variable is required")
		os.Exit(1)
	}

	poolCfg := postgres.DefaultPoolConfig(dsn)
	poolCfg.ApplicationName = "edumaster-sequence"
	poolCfg.MinConns = 0
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	records := coresequence.NewLookupCounter(person_repo.NewRepo(txManager), coresequence.DefaultConfig())
	e := &env{
		counters: sequence.New(txManager, records),
		records:  records,
	}

	if err := cmd(ctx, e, a); err != nil {
		fmt.Printf("Error: %v\n", err)
		pool.Close()
		os.Exit(1)
	}
}

func peek(ctx context.Context, e *env, a args) error {
	last, err := e.counters.LastNumber(ctx, a.key)
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%d\n", a.key, last)
	return nil
}

func set(ctx context.Context, e *env, a args) error {
	if !a.hasValue {
		return fmt.Errorf("--value is required")
	}
	if err := e.counters.SetLastNumber(ctx, a.key, a.value); err != nil {
		return err
	}
	fmt.Printf("%s\t%d\n", a.key, a.value)
	return nil
}

func sync(ctx context.Context, e *env, a args) error {
	floor, err := e.records.Next(ctx, a.key)
	if err != nil {
		return err
	}
	if floor.Cause != nil {
		fmt.Printf("  Warning: %v\n", floor.Cause)
	}

	last, err := e.counters.LastNumber(ctx, a.key)
	if err != nil {
		return err
	}

	target := floor.Seq - 1
	if last >= target {
		fmt.Printf("%s\t%d (up to date)\n", a.key, last)
		return nil
	}
	if err := e.counters.SetLastNumber(ctx, a.key, target); err != nil {
		return err
	}
	fmt.Printf("%s\t%d -> %d\n", a.key, last, target)
	return nil
}
