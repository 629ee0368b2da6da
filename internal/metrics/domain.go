package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	templateImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumestudio",
			Subsystem: "templates",
			Name:      "imports_total",
			Help:      "模板导入次数，按结果（ok/legacy/invalid/malformed）区分。",
		},
		[]string{"result"},
	)

	templateValidationErrors = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumestudio",
			Subsystem: "templates",
			Name:      "validation_errors",
			Help:      "单个被拒绝文档的校验错误数量分布。",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	extractRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumestudio",
			Subsystem: "extract",
			Name:      "requests_total",
			Help:      "截图版式提取请求数，按结果区分。",
		},
		[]string{"outcome"},
	)

	estimatedPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumestudio",
			Subsystem: "pagination",
			Name:      "estimated_pages",
			Help:      "分页估算结果分布。",
			Buckets:   []float64{1, 2, 3, 4, 6, 10},
		},
	)
)

// ObserveImport 记录一次导入结果；被拒绝时同时记录错误数量。
func ObserveImport(result string, validationErrors int) {
	templateImportsTotal.WithLabelValues(result).Inc()
	if validationErrors > 0 {
		templateValidationErrors.Observe(float64(validationErrors))
	}
}

// ObserveExtract 记录一次提取请求的结果。
func ObserveExtract(outcome string) {
	extractRequestsTotal.WithLabelValues(outcome).Inc()
}

// ObservePages 记录分页估算值。
func ObservePages(pages int) {
	estimatedPages.Observe(float64(pages))
}
