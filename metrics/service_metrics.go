package metrics

// MetricsWriter provides a unified interface for recording per-provider
// request metrics, implementing the fetch client's status handler
type MetricsWriter struct {
	providerName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified provider
func NewMetricsWriter(providerName string) *MetricsWriter {
	return &MetricsWriter{
		providerName: providerName,
	}
}

// GetProviderName returns the provider name
func (mw *MetricsWriter) GetProviderName() string {
	return mw.providerName
}

// OnRequest records an HTTP request with its status
func (mw *MetricsWriter) OnRequest(status string) {
	ProviderRequestsTotal.WithLabelValues(mw.providerName, status).Inc()
}

// OnRetry records an HTTP retry attempt
func (mw *MetricsWriter) OnRetry() {
	ProviderRetryCounter.WithLabelValues(mw.providerName).Inc()
}
