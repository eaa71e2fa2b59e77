package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionIsTotalAndOrdered(t *testing.T) {
	statuses := []Status{StatusPending, StatusAccepted, StatusRejected}
	rng := rand.New(rand.NewSource(3))

	for run := 0; run < 100; run++ {
		n := rng.Intn(12)
		in := make([]Proposal, n)
		for i := range in {
			in[i] = Proposal{ID: string(rune('a' + i)), Status: statuses[rng.Intn(len(statuses))]}
		}

		out := Partition(in)
		assert.Equal(t, n, len(out.Pending)+len(out.Processed))

		seen := map[string]int{}
		for _, p := range out.Pending {
			assert.Equal(t, StatusPending, p.Status)
			seen[p.ID]++
		}
		for _, p := range out.Processed {
			assert.NotEqual(t, StatusPending, p.Status)
			seen[p.ID]++
		}
		for _, p := range in {
			assert.Equal(t, 1, seen[p.ID], "proposal %s", p.ID)
		}

		assertOrdered(t, in, out.Pending)
		assertOrdered(t, in, out.Processed)
	}
}

func assertOrdered(t *testing.T, in, part []Proposal) {
	t.Helper()
	pos := map[string]int{}
	for i, p := range in {
		pos[p.ID] = i
	}
	for i := 1; i < len(part); i++ {
		assert.Less(t, pos[part[i-1].ID], pos[part[i].ID])
	}
}

func TestPartitionEmpty(t *testing.T) {
	out := Partition(nil)
	assert.NotNil(t, out.Pending)
	assert.NotNil(t, out.Processed)
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusAccepted.Terminal())
	assert.True(t, StatusRejected.Terminal())
}
