package ingest

import (
	"context"
	"testing"
)

func TestParseBindSpecSinglePort(t *testing.T) {
	spec, err := ParseBindSpec("127.0.0.1:4300")
	if err != nil {
		t.Fatalf("ParseBindSpec: %v", err)
	}
	if spec.Host != "127.0.0.1" || spec.MinPort != 4300 || spec.MaxPort != 4300 {
		t.Errorf("unexpected spec: %+v", spec)
	}
}

func TestParseBindSpecRange(t *testing.T) {
	spec, err := ParseBindSpec("0.0.0.0:4300-4310")
	if err != nil {
		t.Fatalf("ParseBindSpec: %v", err)
	}
	if spec.MinPort != 4300 || spec.MaxPort != 4310 {
		t.Errorf("unexpected range: %+v", spec)
	}
}

func TestParseBindSpecRejectsBackwardsRange(t *testing.T) {
	if _, err := ParseBindSpec("127.0.0.1:4310-4300"); err == nil {
		t.Error("expected error for a backwards port range")
	}
}

func TestParseBindSpecRejectsMalformed(t *testing.T) {
	cases := []string{"noport", "127.0.0.1:abc", "127.0.0.1:123-xyz"}
	for _, c := range cases {
		if _, err := ParseBindSpec(c); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}

func TestListenerSetBindsEphemeralPorts(t *testing.T) {
	ls := NewListenerSet()
	specs := []BindSpec{
		{Host: "127.0.0.1", MinPort: 0, MaxPort: 0},
		{Host: "127.0.0.1", MinPort: 0, MaxPort: 0},
	}
	listeners, err := ls.Bind(context.Background(), specs)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer func() {
		for _, ln := range listeners {
			ln.Close()
		}
	}()
	if len(listeners) != 2 {
		t.Fatalf("expected 2 listeners, got %d", len(listeners))
	}
	if listeners[0].Addr().String() == listeners[1].Addr().String() {
		t.Error("expected distinct ephemeral ports")
	}
}

func TestListenerSetBindFailureClosesPriorListeners(t *testing.T) {
	ls := NewListenerSet()
	specs := []BindSpec{
		{Host: "127.0.0.1", MinPort: 0, MaxPort: 0},
		{Host: "256.256.256.256", MinPort: 4300, MaxPort: 4300},
	}
	if _, err := ls.Bind(context.Background(), specs); err == nil {
		t.Error("expected an error binding an invalid host")
	}
}
