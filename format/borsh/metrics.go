package borsh

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// Metrics collects codec counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Encodes      *metrics.Counter // completed encode calls
	Decodes      *metrics.Counter // completed decode calls
	EncodedBytes *metrics.Counter // bytes produced by encode
	DecodedBytes *metrics.Counter // bytes consumed by decode
	Grows        *metrics.Counter // buffer growth steps
	Failures     *metrics.Counter // failed encode/decode calls
}

// NewMetrics registers the codec counters in the given set, labelled with
// name. If set is nil, the counters are registered in the default set of
// github.com/VictoriaMetrics/metrics. Calling NewMetrics twice with the same
// set and name returns counters backed by the same values.
func NewMetrics(set *metrics.Set, name string) *Metrics {
	counter := func(metric string) *metrics.Counter {
		full := fmt.Sprintf(`borsh_%s{context=%q}`, metric, name)
		if set == nil {
			return metrics.GetOrCreateCounter(full)
		}
		return set.GetOrCreateCounter(full)
	}
	return &Metrics{
		Encodes:      counter("encode_total"),
		Decodes:      counter("decode_total"),
		EncodedBytes: counter("encoded_bytes_total"),
		DecodedBytes: counter("decoded_bytes_total"),
		Grows:        counter("buffer_grow_total"),
		Failures:     counter("failure_total"),
	}
}

func (m *Metrics) encoded(n int) {
	if m == nil {
		return
	}
	m.Encodes.Inc()
	m.EncodedBytes.Add(n)
}

func (m *Metrics) decoded(n int) {
	if m == nil {
		return
	}
	m.Decodes.Inc()
	m.DecodedBytes.Add(n)
}

func (m *Metrics) grown() {
	if m == nil {
		return
	}
	m.Grows.Inc()
}

func (m *Metrics) failed() {
	if m == nil {
		return
	}
	m.Failures.Inc()
}
