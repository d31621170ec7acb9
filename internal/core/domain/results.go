package domain

import "bytes"

// BatchResults is the accumulated per-channel outcome of a batch run,
// keyed by channel name. Iteration and serialization follow insertion
// order so that writing the same results twice produces identical bytes.
type BatchResults struct {
	names  []string
	byName map[string]ChannelResult
}

// NewBatchResults returns an empty results mapping.
func NewBatchResults() *BatchResults {
	return &BatchResults{byName: make(map[string]ChannelResult)}
}

// Set inserts or replaces the result for a channel. A replaced channel
// keeps its original position.
func (b *BatchResults) Set(name string, result ChannelResult) {
	if _, ok := b.byName[name]; !ok {
		b.names = append(b.names, name)
	}
	b.byName[name] = result
}

// Get returns the result recorded for a channel.
func (b *BatchResults) Get(name string) (ChannelResult, bool) {
	r, ok := b.byName[name]
	return r, ok
}

// Len returns the number of recorded channels.
func (b *BatchResults) Len() int {
	return len(b.names)
}

// Each calls fn for every recorded channel in insertion order.
func (b *BatchResults) Each(fn func(name string, result ChannelResult)) {
	for _, name := range b.names {
		fn(name, b.byName[name])
	}
}

// MarshalJSON renders the mapping as a JSON object in insertion order.
func (b *BatchResults) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range b.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalNoEscape(b.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
