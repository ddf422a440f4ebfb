package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "corekv"

	SubsystemQueue    = "queue"
	SubsystemGateway  = "gateway"
	SubsystemIterator = "iterator"

	LabelCommand   = "command"
	LabelMethod    = "method"
	LabelErrorCode = "code"
	LabelKind      = "kind"
	LabelTrigger   = "trigger"
)

var DefBuckets = []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

// command queue
var (
	// 命令处理量
	CommandCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemQueue,
			Name:      "commands_total",
			Help:      "Total number of processed lifecycle commands.",
		},
		[]string{LabelCommand, LabelErrorCode})
	CommandHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemQueue,
			Name:      "command_seconds",
			Help:      "Histogram of command processing latency.",
			Buckets:   DefBuckets,
		},
		[]string{LabelCommand})
	// 排队中的命令数
	QueueDepthGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: SubsystemQueue,
			Name:      "depth",
			Help:      "Number of commands waiting for the worker.",
		})
)

// gateway
var (
	GatewayCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemGateway,
			Name:      "calls_total",
			Help:      "Total number of synchronous data calls.",
		},
		[]string{LabelMethod, LabelErrorCode})
	GatewayBytesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemGateway,
			Name:      "bytes_total",
			Help:      "Total size of keys and values moved through the gateway.",
		},
		[]string{LabelMethod})
)

// iterator & finalization
var (
	LiveIteratorGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: SubsystemIterator,
			Name:      "live",
			Help:      "Number of iterators holding an engine cursor.",
		})
	FinalizeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemIterator,
			Name:      "finalize_total",
			Help:      "Total number of finalized iterators and databases.",
		},
		[]string{LabelKind, LabelTrigger})
)

var registerOnce sync.Once

// RegisterMetrics registers every corekv collector with the default
// registry. Calling it more than once is harmless.
func RegisterMetrics() {
	registerOnce.Do(func() {
		// queue
		prometheus.MustRegister(CommandCounter)
		prometheus.MustRegister(CommandHistogram)
		prometheus.MustRegister(QueueDepthGauge)
		// gateway
		prometheus.MustRegister(GatewayCounter)
		prometheus.MustRegister(GatewayBytesCounter)
		// iterator
		prometheus.MustRegister(LiveIteratorGauge)
		prometheus.MustRegister(FinalizeCounter)
	})
}
