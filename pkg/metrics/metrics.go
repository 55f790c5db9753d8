package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumate", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumate", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	ResumeWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumate", Name: "resume_writes_total", Help: "Resume document writes by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumate", Name: "llm_requests_total", Help: "Generative API calls by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	PDFRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resumate", Name: "pdf_renders_total", Help: "PDF renders by outcome."},
		[]string{"outcome"},
	)
	PDFRenderSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "resumate", Name: "pdf_render_seconds", Help: "Wall time of a headless browser render.", Buckets: prometheus.ExponentialBuckets(0.25, 2, 8)},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(ResumeWrites)
	reg.MustRegister(LLMRequests)
	reg.MustRegister(PDFRenders)
	reg.MustRegister(PDFRenderSeconds)
}
