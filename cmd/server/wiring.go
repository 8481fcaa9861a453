package main

import (
	"fmt"

	coresequence "edumaster/internal/core/sequence"
	"edumaster/internal/infrastructure/sequence"
	"edumaster/internal/infrastructure/storage/postgres"
)

// buildCounter picks the sequence counter for the configured mode. The
// lookup counter over person records is the floor of every mode.
func buildCounter(mode string, lookup coresequence.Lookup, txManager *postgres.TxManager, cfg coresequence.Config) (coresequence.Counter, error) {
	records := coresequence.NewLookupCounter(lookup, cfg)

	switch mode {
	case ModeLookup:
		return records, nil
	case ModeLocal:
		return coresequence.NewLocalCounter(records), nil
	case ModeLocked:
		if txManager == nil {
			return nil, fmt.Errorf("%s mode requires a database", ModeLocked)
		}
		return sequence.New(txManager, records), nil
	default:
		return nil, fmt.Errorf("unknown allocator mode %q", mode)
	}
}
