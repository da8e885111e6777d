package micropdf

// Policy selects which eligible entry a [Store]
// discards first under budget pressure.
type Policy uint8

// Eviction policies.
// All of them break ties by insertion order:
// when two candidates compare equal, the older entry is evicted.
const (
	// PolicyLRU evicts the least recently used entry.
	PolicyLRU Policy = iota
	// PolicyLFU evicts the least frequently used entry.
	PolicyLFU
	// PolicyFIFO evicts the earliest-created entry.
	PolicyFIFO
	// PolicyFirst evicts the first eligible entry in insertion order.
	// It is deterministic; there is no randomized policy.
	PolicyFirst
	policyCount // Sentinel; keep last.
)

func (p Policy) valid() bool { return p < policyCount }

func (p Policy) String() string {
	switch p {
	case PolicyLRU:
		return "lru"
	case PolicyLFU:
		return "lfu"
	case PolicyFIFO:
		return "fifo"
	case PolicyFirst:
		return "first"
	default:
		return "invalid"
	}
}

// metric is the ordering key of an entry under policy p.
// The candidate with the lowest metric is evicted;
// the ring walk visits entries oldest-first, so the
// earliest-inserted of equally ranked candidates wins.
func (p Policy) metric(data *itemData) uint64 {
	switch p {
	case PolicyLFU:
		return data.accessCount
	case PolicyFIFO:
		return data.createdTick
	case PolicyFirst:
		return 0
	default: // PolicyLRU
		return data.lastTick
	}
}
