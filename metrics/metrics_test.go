package metrics

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"syscall"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/scitags/rtnl-go/link"
	"github.com/scitags/rtnl-go/nla"
	"github.com/scitags/rtnl-go/rtnl"
)

func TestReflection(t *testing.T) {
	x := newMetrics()

	v := reflect.ValueOf(*x)

	for i := 0; i < v.NumField(); i++ {
		vv := v.Field(i).Interface()
		_, ok := vv.(prometheus.Collector)
		if !ok {
			t.Errorf("error casting the interface for %d", i)
		}
	}
}

func linkWithUnknowns() *rtnl.Message {
	return &rtnl.Message{
		Type: rtnl.RTM_NEWLINK,
		Payload: &link.Message{
			Attributes: []nla.Attribute{
				link.Name("eth0"),
				nla.Unknown{Type: 999, Value: []byte{1, 2, 3, 4}},
				nla.Nested{Type: 998, Attributes: []nla.Attribute{
					nla.Unknown{Type: 1, Value: []byte{5}},
				}},
			},
		},
	}
}

func TestUnknown(t *testing.T) {
	got := Unknown(linkWithUnknowns().Payload)
	want := []nla.Unknown{
		{Type: 999, Value: []byte{1, 2, 3, 4}},
		{Type: 1, Value: []byte{5}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unknown attributes mismatch (-want +got):\n%s", diff)
	}

	if got := Unknown(nil); got != nil {
		t.Errorf("nil payload: got %v", got)
	}
	if got := Unknown((*link.Message)(nil)); got != nil {
		t.Errorf("nil link: got %v", got)
	}
}

func TestObserve(t *testing.T) {
	rec, err := NewRecorder()
	if err != nil {
		t.Fatalf("couldn't create the recorder: %v", err)
	}

	rec.Observe(rtnl.Result{Message: linkWithUnknowns()})
	rec.Observe(rtnl.Result{Message: linkWithUnknowns()})
	rec.Observe(rtnl.Result{
		Message: &rtnl.Message{Type: rtnl.RTM_NEWROUTE},
		Err:     &nla.LengthError{Field: "route header", Want: 12, Have: 4},
	})
	rec.Observe(rtnl.Result{
		Message: &rtnl.Message{Type: rtnl.NLMSG_ERROR, Payload: &rtnl.ErrorMessage{Code: -int32(syscall.EEXIST)}},
		Err:     &rtnl.KernelError{Errno: syscall.EEXIST, Request: rtnl.RTM_NEWROUTE},
	})
	rec.Observe(rtnl.Result{})

	tests := map[string]struct {
		c    prometheus.Collector
		want float64
	}{
		"links":          {rec.m.Messages.WithLabelValues("RTM_NEWLINK"), 2},
		"unknown 999":    {rec.m.Unknown.WithLabelValues("RTM_NEWLINK", "999"), 2},
		"unknown nested": {rec.m.Unknown.WithLabelValues("RTM_NEWLINK", "1"), 2},
		"short route":    {rec.m.Failures.WithLabelValues("RTM_NEWROUTE", "length"), 1},
		"eexist":         {rec.m.KernelErrors.WithLabelValues("NLMSG_ERROR", "17"), 1},
		"errors":         {rec.m.Messages.WithLabelValues("NLMSG_ERROR"), 1},
	}
	for name, test := range tests {
		if got := testutil.ToFloat64(test.c); got != test.want {
			t.Errorf("%s: got %v; want %v", name, got, test.want)
		}
	}

	if n := testutil.CollectAndCount(rec.m.Failures); n != 1 {
		t.Errorf("got %d failure series; want 1", n)
	}
}

func TestServer(t *testing.T) {
	rec, err := NewRecorder()
	if err != nil {
		t.Fatalf("couldn't create the recorder: %v", err)
	}
	rec.Observe(rtnl.Result{Message: linkWithUnknowns()})

	s := NewServer(&Config{Log: true, BindAddress: "127.0.0.1", Port: 9177}, rec)
	if s.Address() != "127.0.0.1:9177" {
		t.Errorf("got address %q", s.Address())
	}

	tests := map[string]string{
		"/metrics": `rtnl_messages_total{type="RTM_NEWLINK"} 1`,
		"/healthz": "ok",
	}
	for path, want := range tests {
		w := httptest.NewRecorder()
		s.server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: got status %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("%s: %q not in\n%s", path, want, w.Body.String())
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	if err := yaml.Unmarshal([]byte("port: 9999\n"), &c); err != nil {
		t.Fatalf("couldn't unmarshal: %v", err)
	}
	want := Config{Log: true, BindAddress: "127.0.0.1", Port: 9999}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}
