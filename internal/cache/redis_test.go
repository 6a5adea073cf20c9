package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type request struct {
	Area  float64         `json:"area"`
	Items map[string]bool `json:"items"`
}

func TestKeyIsDeterministic(t *testing.T) {
	a := request{Area: 1000, Items: map[string]bool{"wardrobe": true, "doors": false, "pooja_unit": true}}
	b := request{Area: 1000, Items: map[string]bool{"pooja_unit": true, "doors": false, "wardrobe": true}}

	ka, err := Key("fp1", a)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	kb, err := Key("fp1", b)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if ka != kb {
		t.Fatalf("keys differ for equal requests: %s vs %s", ka, kb)
	}
	if want := keyPrefix + KeyVersion + ":"; !strings.HasPrefix(ka, want) {
		t.Fatalf("key %q does not start with %q", ka, want)
	}
}

func TestKeyDependsOnFingerprintAndRequest(t *testing.T) {
	req := request{Area: 1000}

	k1, _ := Key("fp1", req)
	k2, _ := Key("fp2", req)
	if k1 == k2 {
		t.Fatalf("catalog fingerprint does not affect the key")
	}

	req.Area = 1001
	k3, _ := Key("fp1", req)
	if k1 == k3 {
		t.Fatalf("request does not affect the key")
	}
}

func TestKeyRejectsUnencodable(t *testing.T) {
	if _, err := Key("fp", make(chan int)); err == nil {
		t.Fatalf("expected encode error")
	}
}

func TestConnectGivesUp(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, Options{
		Addr:           "127.0.0.1:1",
		MaxConnectTime: 300 * time.Millisecond,
	}, zap.NewNop())
	if err == nil {
		t.Fatalf("expected connect error for closed port")
	}
}
