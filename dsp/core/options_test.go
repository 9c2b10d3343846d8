package core

import (
	"errors"
	"testing"
)

var errTestOption = errors.New("option failed")

type optTestConfig struct{ n int }

func TestApplyOptions(t *testing.T) {
	inc := func(cfg *optTestConfig) error { cfg.n++; return nil }
	fail := func(*optTestConfig) error { return errTestOption }

	cfg := optTestConfig{}
	opts := []func(*optTestConfig) error{inc, nil, inc}
	if err := ApplyOptions(&cfg, opts); err != nil || cfg.n != 2 {
		t.Fatalf("ApplyOptions() = %v, n = %d", err, cfg.n)
	}

	cfg = optTestConfig{}
	opts = []func(*optTestConfig) error{inc, fail, inc}
	if err := ApplyOptions(&cfg, opts); err != errTestOption || cfg.n != 1 {
		t.Fatalf("ApplyOptions() = %v, n = %d", err, cfg.n)
	}
}
