// Package main imports legacy student and employee records.
// Usage: import students legacy_students.csv > credentials.csv
//
//	import employees legacy_faculty.csv > credentials.csv
//
// Each imported person gets a fresh initial password, printed as CSV on
// stdout. Partition counters are raised to the highest imported number in
// the same transaction.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	coresequence "edumaster/internal/core/sequence"
	"edumaster/internal/domain/identity"
	"edumaster/internal/infrastructure/sequence"
	"edumaster/internal/infrastructure/storage/postgres"
	"edumaster/internal/infrastructure/storage/postgres/person_repo"
	"edumaster/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: import students|employees <file.csv>")
		os.Exit(1)
	}
	kind, path := os.Args[1], os.Args[2]

	ctx := logger.WithLogger(context.Background(), log)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalw("failed to open file", "path", path, "error", err)
	}
	defer f.Close()

	cfg := coresequence.DefaultConfig()
	b, err := readRecords(f, kind, cfg)
	if err != nil {
		log.Fatalw("invalid import file", "path", path, "error", err)
	}
	if b.size() == 0 {
		log.Info("nothing to import")
		return
	}

	passwords := make(map[string]string, b.size())
	for _, s := range b.students {
		if s.PasswordHash, err = issuePassword(passwords, s.UserID); err != nil {
			log.Fatalw("failed to hash password", "error", err)
		}
	}
	for _, e := range b.employees {
		if e.PasswordHash, err = issuePassword(passwords, e.UserID); err != nil {
			log.Fatalw("failed to hash password", "error", err)
		}
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	poolCfg.ApplicationName = "edumaster-import"
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	repo := person_repo.NewRepo(txManager)
	counters := sequence.New(txManager, nil)

	var imported int64
	err = txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if len(b.students) > 0 {
			imported, err = repo.ImportStudents(ctx, b.students)
		} else {
			imported, err = repo.ImportEmployees(ctx, b.employees)
		}
		if err != nil {
			return err
		}

		for key, highest := range b.highest {
			last, err := counters.LastNumber(ctx, key)
			if err != nil {
				return err
			}
			if last >= highest {
				continue
			}
			if err := counters.SetLastNumber(ctx, key, highest); err != nil {
				return err
			}
			log.Infow("partition counter raised", "partition", key.String(), "from", last, "to", highest)
		}
		return nil
	})
	if err != nil {
		log.Fatalw("import failed", "error", err)
	}

	out := csv.NewWriter(os.Stdout)
	_ = out.Write([]string{"user_id", "password"})
	for _, s := range b.students {
		_ = out.Write([]string{s.UserID, passwords[s.UserID]})
	}
	for _, e := range b.employees {
		_ = out.Write([]string{e.UserID, passwords[e.UserID]})
	}
	out.Flush()

	log.Infow("import completed", "kind", kind, "records", imported, "partitions", len(b.highest))
}

func issuePassword(passwords map[string]string, userID string) (string, error) {
	plain := identity.GeneratePassword()
	passwords[userID] = plain
	return identity.HashPassword(plain)
}
