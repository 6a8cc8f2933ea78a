package swarm

// noiseSource produces the per-axis velocity jitter. It hashes
// (frame, particle, axis) with a splitmix64 finalizer so the stream is
// deterministic for a given seed no matter how the update pass is sharded
// across workers.
type noiseSource struct {
	seed uint64
}

func (n noiseSource) jitter(frame uint64, idx, axis int) float32 {
	h := n.seed
	h ^= frame * 0x9e3779b97f4a7c15
	h ^= uint64(idx)*0xbf58476d1ce4e5b9 + uint64(axis)*0x94d049bb133111eb
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31

	// Top 24 bits mapped to [-1, 1).
	return float32(h>>40)/float32(1<<23) - 1
}
