package link

import "github.com/prometheus/client_golang/prometheus"

func init() {
	prometheus.MustRegister(linksIssuedMetric, fetchesMetric)
}

var linksIssuedMetric = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "rawlink",
	Subsystem: "links",
	Name:      "issued_total",
	Help:      "Total signed links issued",
})

var fetchesMetric = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rawlink",
	Subsystem: "links",
	Name:      "fetches_total",
	Help:      "Total raw link fetches by result",
}, []string{"result"})

// recordFetch increments the fetch tally for the outcome of a verification.
func recordFetch(err error) {
	result := "ok"
	if err != nil {
		if result = Reason(err); result == "" {
			result = "error"
		}
	}
	fetchesMetric.WithLabelValues(result).Inc()
}
