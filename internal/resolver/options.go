package resolver

// Default tuning values.
const (
	// DefaultCacheThreshold is the confidence at which a cache hit ends the pipeline.
	DefaultCacheThreshold = 0.5
	// DefaultConfirmedConfidence is stored on user corrections. It stays below 1
	// and above every automatic tier.
	DefaultConfirmedConfidence = 0.95
	// DefaultChunkSize bounds how many descriptors a batch resolves at once.
	DefaultChunkSize = 10
)

// Fixed tier confidences.
const (
	feeConfidence          = 0.9
	platformConfidence     = 0.8
	intermediaryConfidence = 0.5
)

// Options tunes a Resolver.
type Options struct {
	// OnChunk, if set, is called after each batch chunk with the number of
	// descriptors resolved so far and the batch total.
	OnChunk func(done, total int)

	CacheThreshold      float64
	ConfirmedConfidence float64
	ChunkSize           int

	// RecordDetections persists platform and fee resolutions as global entries.
	RecordDetections bool
	// TrackMatches updates match statistics on every cache hit.
	TrackMatches bool
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		CacheThreshold:      DefaultCacheThreshold,
		ConfirmedConfidence: DefaultConfirmedConfidence,
		ChunkSize:           DefaultChunkSize,
	}
}

func (o Options) withDefaults() Options {
	if o.CacheThreshold <= 0 || o.CacheThreshold > 1 {
		o.CacheThreshold = DefaultCacheThreshold
	}
	if o.ConfirmedConfidence <= 0 || o.ConfirmedConfidence > 1 {
		o.ConfirmedConfidence = DefaultConfirmedConfidence
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	return o
}
