package sequence

import "context"

// MockCounter is a test implementation of Counter.
// Use in unit tests to avoid database dependencies.
type MockCounter struct {
	NextFunc func(ctx context.Context, key PartitionKey) (Reservation, error)
}

// Next implements Counter.
func (m *MockCounter) Next(ctx context.Context, key PartitionKey) (Reservation, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, key)
	}
	// Default: every partition is fresh
	return Reservation{Seq: 1, Outcome: OutcomeFresh}, nil
}

// MockLookup is a test implementation of Lookup backed by a map of
// partition key to latest identifier.
type MockLookup struct {
	Latest map[string]string
	Err    error
}

// LatestIdentifier implements Lookup.
func (m *MockLookup) LatestIdentifier(_ context.Context, key PartitionKey) (string, bool, error) {
	if m.Err != nil {
		return "", false, m.Err
	}
	id, ok := m.Latest[key.String()]
	return id, ok, nil
}

// Ensure compile-time interface compliance.
var (
	_ Counter = (*MockCounter)(nil)
	_ Counter = (*LookupCounter)(nil)
	_ Counter = (*LocalCounter)(nil)
	_ Lookup  = (*MockLookup)(nil)
)
