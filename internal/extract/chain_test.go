// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeStrategy records calls and returns canned output.
type fakeStrategy struct {
	name  string
	text  string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Extract(ctx context.Context, data []byte) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func longText() string {
	return strings.Repeat("INVOICE 12345 ACME CORP ", 5)
}

func TestChainFirstAcceptableWins(t *testing.T) {
	first := &fakeStrategy{name: "first", text: longText()}
	second := &fakeStrategy{name: "second", text: longText()}
	chain := NewChainWithStrategies(DefaultOptions(), first, second)

	result, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Strategy != "first" {
		t.Errorf("expected first strategy to win, got %q", result.Strategy)
	}
	if second.calls != 0 {
		t.Errorf("second strategy should not run after acceptance, got %d calls", second.calls)
	}
}

func TestChainFallsThroughShortOutput(t *testing.T) {
	first := &fakeStrategy{name: "first", text: "too short"}
	second := &fakeStrategy{name: "second", text: longText()}
	chain := NewChainWithStrategies(DefaultOptions(), first, second)

	result, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Strategy != "second" {
		t.Errorf("expected fallthrough to second strategy, got %q", result.Strategy)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("expected one call each, got %d and %d", first.calls, second.calls)
	}
}

func TestChainAcceptanceThresholdIsStrict(t *testing.T) {
	// Exactly the minimum length must not be accepted.
	exact := strings.Repeat("a", DefaultMinTextLength)
	first := &fakeStrategy{name: "first", text: exact}
	second := &fakeStrategy{name: "second", text: exact + "b"}
	chain := NewChainWithStrategies(DefaultOptions(), first, second)

	result, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Strategy != "second" {
		t.Errorf("output of exactly the minimum length should be rejected, winner %q", result.Strategy)
	}
}

func TestChainStrategyErrorsAbsorbed(t *testing.T) {
	first := &fakeStrategy{name: "first", err: errors.New("parser blew up")}
	second := &fakeStrategy{name: "second", text: longText()}
	chain := NewChainWithStrategies(DefaultOptions(), first, second)

	result, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("strategy error should be absorbed, got %v", err)
	}
	if result.Strategy != "second" {
		t.Errorf("expected second strategy after failure, got %q", result.Strategy)
	}
}

func TestChainFileTooLarge(t *testing.T) {
	first := &fakeStrategy{name: "first", text: longText()}
	opts := DefaultOptions()
	opts.MaxFileSize = 10
	chain := NewChainWithStrategies(opts, first)

	_, err := chain.Extract(context.Background(), []byte("this payload exceeds ten bytes"))
	if CodeOf(err) != FailureFileTooLarge {
		t.Fatalf("expected %s, got %v", FailureFileTooLarge, err)
	}
	if first.calls != 0 {
		t.Errorf("no strategy should run for oversized input, got %d calls", first.calls)
	}
}

func TestChainNoTextWhenAllStrategiesEmpty(t *testing.T) {
	first := &fakeStrategy{name: "first"}
	second := &fakeStrategy{name: "second"}
	chain := NewChainWithStrategies(DefaultOptions(), first, second)

	_, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))
	if CodeOf(err) != FailureNoText {
		t.Fatalf("expected %s, got %v", FailureNoText, err)
	}
}

func TestChainSlowStrategyTimesOut(t *testing.T) {
	opts := DefaultOptions()
	opts.StrategyTimeout = 20 * time.Millisecond
	slow := &fakeStrategy{name: "slow", text: longText(), delay: time.Second}
	fast := &fakeStrategy{name: "fast", text: longText()}
	chain := NewChainWithStrategies(opts, slow, fast)

	result, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("per-strategy timeout should be absorbed, got %v", err)
	}
	if result.Strategy != "fast" {
		t.Errorf("expected fast strategy after timeout, got %q", result.Strategy)
	}
}

func TestChainCanceledContext(t *testing.T) {
	first := &fakeStrategy{name: "first", text: longText()}
	chain := NewChainWithStrategies(DefaultOptions(), first)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chain.Extract(ctx, []byte("%PDF-1.4"))
	if CodeOf(err) != FailureTimeout {
		t.Fatalf("expected %s for canceled context, got %v", FailureTimeout, err)
	}
	if first.calls != 0 {
		t.Errorf("no strategy should run under a canceled context, got %d calls", first.calls)
	}
}

func TestChainZeroMinTextLengthHonored(t *testing.T) {
	opts := DefaultOptions()
	opts.MinTextLength = 0
	first := &fakeStrategy{name: "first", text: "ok"}
	chain := NewChainWithStrategies(opts, first)

	result, err := chain.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("a zero acceptance bar must accept any non-empty output, got %v", err)
	}
	if result.Strategy != "first" {
		t.Errorf("expected first strategy to win, got %q", result.Strategy)
	}
}

func TestChainBudget(t *testing.T) {
	opts := DefaultOptions()
	opts.StrategyTimeout = 8 * time.Second
	opts.OCRTimeout = 30 * time.Second

	if got, want := NewChain(opts).Budget(), 3*8*time.Second; got != want {
		t.Errorf("budget without OCR = %v, want %v", got, want)
	}

	opts.EnableOCR = true
	if got, want := NewChain(opts).Budget(), 3*8*time.Second+30*time.Second; got != want {
		t.Errorf("budget with OCR = %v, want %v", got, want)
	}
}

func TestNewChainStrategyOrder(t *testing.T) {
	tests := []struct {
		name      string
		enableOCR bool
		want      []string
	}{
		{
			name: "ocr disabled",
			want: []string{StrategyNameStructured, StrategyNameContentStream, StrategyNameRawScan},
		},
		{
			name:      "ocr enabled",
			enableOCR: true,
			want:      []string{StrategyNameStructured, StrategyNameContentStream, StrategyNameRawScan, StrategyNameOCR},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.EnableOCR = tt.enableOCR
			chain := NewChain(opts)
			if len(chain.strategies) != len(tt.want) {
				t.Fatalf("expected %d strategies, got %d", len(tt.want), len(chain.strategies))
			}
			for i, name := range tt.want {
				if got := chain.strategies[i].Name(); got != name {
					t.Errorf("strategy %d: expected %q, got %q", i, name, got)
				}
			}
		})
	}
}
