package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fotoblog"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Posts committed to the store",
	})

	PostsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_rejected_total",
			Help:      "Post submissions that did not commit, by reason",
		},
		[]string{"reason"},
	)

	PhotosStored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photos_stored_total",
		Help:      "Photo files written and committed",
	})

	PhotoBytesStored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_bytes_stored_total",
		Help:      "Bytes of committed photo files",
	})

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Listing cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Listing cache misses",
		},
		[]string{"backend"},
	)
)
