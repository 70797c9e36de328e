package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCaptured      = "captured"
	outcomeNotForeground = "not_foreground"
	outcomeError         = "error"
)

var (
	readsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translayer_reads_total",
		Help: "Window reads by outcome.",
	}, []string{"outcome"})

	readDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "translayer_read_stage_duration_seconds",
		Help:    "Duration of each read stage.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"stage"})

	recognizedChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "translayer_recognized_characters",
		Help:    "Length of recognized text per read.",
		Buckets: prometheus.LinearBuckets(0, 8, 10),
	})
)
