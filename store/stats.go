package store

import (
	"go.uber.org/atomic"
)

type stats struct {
	puts         atomic.Uint64
	gets         atomic.Uint64
	deletes      atomic.Uint64
	cacheHits    atomic.Uint64
	bytesEncoded atomic.Uint64
	bytesStored  atomic.Uint64
}

func (s *stats) recordPut(r *record) {
	s.puts.Inc()
	s.bytesEncoded.Add(uint64(r.encodedLen))
	s.bytesStored.Add(uint64(len(r.frame)))
}

// Stats counts operations since the store was opened. BytesEncoded is the
// size of the written values before compression and BytesStored after it.
type Stats struct {
	Puts         uint64 `json:"puts"`
	Gets         uint64 `json:"gets"`
	Deletes      uint64 `json:"deletes"`
	CacheHits    uint64 `json:"cache_hits"`
	BytesEncoded uint64 `json:"bytes_encoded"`
	BytesStored  uint64 `json:"bytes_stored"`
}

// Ratio is BytesStored over BytesEncoded, or 1 before anything is written.
func (st Stats) Ratio() float64 {
	if st.BytesEncoded == 0 {
		return 1
	}
	return float64(st.BytesStored) / float64(st.BytesEncoded)
}

func (s *Store) Stats() Stats {
	return Stats{
		Puts:         s.stats.puts.Load(),
		Gets:         s.stats.gets.Load(),
		Deletes:      s.stats.deletes.Load(),
		CacheHits:    s.stats.cacheHits.Load(),
		BytesEncoded: s.stats.bytesEncoded.Load(),
		BytesStored:  s.stats.bytesStored.Load(),
	}
}
