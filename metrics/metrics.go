// Package metrics counts what the decoder sees and serves the counters
// over HTTP for Prometheus to scrape.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/fatih/structs"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/rtnl"
)

var logger = slog.New(slog.DiscardHandler)

// Metric labels (note these are **always** strings):
//
//	type: message type, e.g. RTM_NEWLINK
//	kind: numeric attribute kind
//	reason: which part of the decoder gave up
//	errno: errno reported by the kernel
type metrics struct {
	Messages     *prometheus.CounterVec
	Failures     *prometheus.CounterVec
	Unknown      *prometheus.CounterVec
	KernelErrors *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnl_messages_total",
			Help: "Decoded messages",
		}, []string{"type"}),

		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnl_decode_failures_total",
			Help: "Messages whose payload couldn't be decoded",
		}, []string{"type", "reason"}),

		Unknown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnl_unknown_attributes_total",
			Help: "Attributes kept as raw bytes because their kind isn't modelled",
		}, []string{"type", "kind"}),

		KernelErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtnl_kernel_errors_total",
			Help: "NLMSG_ERROR and NLMSG_DONE messages carrying a negative errno",
		}, []string{"type", "errno"}),
	}
}

// (Nastily) use reflection to avoid having to manually register everything.
func (m *metrics) register(reg prometheus.Registerer) error {
	v := reflect.ValueOf(*m)

	i := 0
	for i = 0; i < v.NumField(); i++ {
		vv, ok := v.Field(i).Interface().(prometheus.Collector)
		if !ok {
			return fmt.Errorf("error casting the interface for index %d", i)
		}
		if err := reg.Register(vv); err != nil {
			return fmt.Errorf("error registering index %d: %w", i, err)
		}
	}
	logger.Log(context.Background(), nla.LevelTrace, "registered collectors", "i", i)

	return nil
}

// Recorder keeps the counters in a registry of its own.
type Recorder struct {
	m   *metrics
	reg *prometheus.Registry
}

func NewRecorder() (*Recorder, error) {
	// Create a non-global registry.
	reg := prometheus.NewRegistry()

	m := newMetrics()
	if err := m.register(reg); err != nil {
		return nil, fmt.Errorf("error registering the metrics: %w", err)
	}

	return &Recorder{m: m, reg: reg}, nil
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Observe accounts for one decoded message.
func (r *Recorder) Observe(res rtnl.Result) {
	if res.Message == nil {
		return
	}
	t := res.Message.Type.String()

	var kErr *rtnl.KernelError
	switch {
	case errors.As(res.Err, &kErr):
		r.m.KernelErrors.WithLabelValues(t, strconv.Itoa(int(kErr.Errno))).Inc()
	case res.Err != nil:
		r.m.Failures.WithLabelValues(t, reason(res.Err)).Inc()
		return
	}

	r.m.Messages.WithLabelValues(t).Inc()

	for _, u := range Unknown(res.Message.Payload) {
		r.m.Unknown.WithLabelValues(t, strconv.Itoa(int(u.Type))).Inc()
	}
}

func reason(err error) string {
	var (
		uErr *rtnl.UnknownTypeError
		cErr *nla.ContextError
		lErr *nla.LengthError
		mErr *nla.MalformedError
		vErr *nla.ValueError
	)
	switch {
	case errors.As(err, &uErr):
		return "unknown_type"
	case errors.As(err, &cErr):
		return "context"
	case errors.As(err, &lErr):
		return "length"
	case errors.As(err, &mErr):
		return "malformed"
	case errors.As(err, &vErr):
		return "value"
	}
	return "other"
}

// Unknown gathers the raw attributes of a payload, descending into nested
// lists.
func Unknown(p rtnl.Payload) []nla.Unknown {
	if p == nil || reflect.ValueOf(p).IsNil() {
		return nil
	}
	f, ok := structs.New(p).FieldOk("Attributes")
	if !ok {
		return nil
	}
	attrs, ok := f.Value().([]nla.Attribute)
	if !ok {
		return nil
	}
	return unknown(nil, attrs)
}

func unknown(out []nla.Unknown, attrs []nla.Attribute) []nla.Unknown {
	for _, a := range attrs {
		switch a := a.(type) {
		case nla.Unknown:
			out = append(out, a)
		case nla.Nested:
			out = unknown(out, a.Attributes)
		}
	}
	return out
}
