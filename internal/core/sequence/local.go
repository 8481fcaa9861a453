package sequence

import (
	"context"
	"sync"
)

type partitionState struct {
	mu   sync.Mutex
	last int64
}

// LocalCounter is an in-process counter keeping the last issued number per
// partition. Reservations of one partition are serialized, so numbers handed
// out before the caller persists its record are never repeated.
//
// When seed is set, each reservation is max(seed, last+1), which keeps the
// counter in line with records written by other processes.
type LocalCounter struct {
	seed Counter

	mu         sync.Mutex
	partitions map[string]*partitionState
}

// NewLocalCounter creates an in-process counter. seed may be nil, in which
// case every partition starts at 1.
func NewLocalCounter(seed Counter) *LocalCounter {
	return &LocalCounter{
		seed:       seed,
		partitions: make(map[string]*partitionState),
	}
}

func (c *LocalCounter) state(key PartitionKey) *partitionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.partitions[key.String()]
	if !ok {
		st = &partitionState{}
		c.partitions[key.String()] = st
	}
	return st
}

// Next implements Counter.
func (c *LocalCounter) Next(ctx context.Context, key PartitionKey) (Reservation, error) {
	st := c.state(key)
	st.mu.Lock()
	defer st.mu.Unlock()

	res := Reservation{Seq: 1, Outcome: OutcomeFresh}
	if c.seed != nil {
		var err error
		if res, err = c.seed.Next(ctx, key); err != nil {
			return Reservation{}, err
		}
	}

	if res.Seq <= st.last {
		res.Seq = st.last + 1
		if res.Outcome == OutcomeFresh {
			res.Outcome = OutcomeContinued
		}
	}
	st.last = res.Seq
	return res, nil
}

// Last returns the last number issued for the partition, 0 if none.
func (c *LocalCounter) Last(key PartitionKey) int64 {
	st := c.state(key)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.last
}
