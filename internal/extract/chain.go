// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract implements the multi-strategy text-extraction chain for
// PDF invoice documents. Strategies run sequentially in a fixed priority
// order, each under its own timeout; the first strategy whose trimmed output
// exceeds a minimum length is accepted and no further strategy runs. A
// strategy timeout or internal error is absorbed as an empty result, never
// propagated — only input validation and whole-chain exhaustion surface
// typed failures.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invoice-ingest/internal/observability"
)

// Default chain limits. Overridable through Options.
const (
	DefaultMaxFileSize     = 15 * 1024 * 1024 // 15MB
	DefaultMinTextLength   = 50
	DefaultStrategyTimeout = 8 * time.Second
	DefaultOCRTimeout      = 30 * time.Second
	DefaultOCRMaxPages     = 3
)

// Strategy is one independent text-extraction technique. Extract is a pure
// transform from bytes to text; a failed strategy returns an error or output
// below the chain's acceptance threshold, and the chain moves on.
type Strategy interface {
	// Name identifies the strategy in logs and results.
	Name() string

	// Extract attempts to pull plain text out of the document bytes.
	// Implementations should honor ctx cancellation where practical;
	// the chain abandons (but cannot kill) work that overruns.
	Extract(ctx context.Context, data []byte) (string, error)
}

// Options configures a Chain.
type Options struct {
	// MaxFileSize rejects oversized input before any strategy runs.
	MaxFileSize int64
	// MinTextLength is the acceptance bar: trimmed strategy output must
	// exceed this many characters to be accepted as final.
	MinTextLength int
	// StrategyTimeout bounds each non-OCR strategy attempt.
	StrategyTimeout time.Duration
	// OCRTimeout bounds the OCR strategy, which is allowed a longer
	// budget because rendering and recognition are slow.
	OCRTimeout time.Duration
	// EnableOCR appends the OCR strategy to the chain. Disabled
	// strategies are absent from the list, not conditionally skipped.
	EnableOCR bool
	// OCRMaxPages caps how many pages the OCR strategy renders.
	OCRMaxPages int
}

// DefaultOptions returns the standard chain limits.
func DefaultOptions() Options {
	return Options{
		MaxFileSize:     DefaultMaxFileSize,
		MinTextLength:   DefaultMinTextLength,
		StrategyTimeout: DefaultStrategyTimeout,
		OCRTimeout:      DefaultOCRTimeout,
		OCRMaxPages:     DefaultOCRMaxPages,
	}
}

// Chain runs extraction strategies in priority order.
type Chain struct {
	opts       Options
	strategies []Strategy
	observer   *observability.StandardObserver
}

// NewChain builds the default strategy chain for the given options:
// structured PDF parse, content-stream parse, raw byte scan, and, when
// enabled, OCR. The registry is fixed at construction time.
func NewChain(opts Options) *Chain {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	// Zero is a legitimate bar (accept any non-empty output); only a
	// negative value falls back to the default.
	if opts.MinTextLength < 0 {
		opts.MinTextLength = DefaultMinTextLength
	}
	if opts.StrategyTimeout <= 0 {
		opts.StrategyTimeout = DefaultStrategyTimeout
	}
	if opts.OCRTimeout <= 0 {
		opts.OCRTimeout = DefaultOCRTimeout
	}
	if opts.OCRMaxPages <= 0 {
		opts.OCRMaxPages = DefaultOCRMaxPages
	}

	strategies := []Strategy{
		NewStructuredStrategy(),
		NewContentStreamStrategy(),
		NewRawScanStrategy(),
	}
	if opts.EnableOCR {
		strategies = append(strategies, NewOCRStrategy(opts.OCRMaxPages))
	}

	return &Chain{opts: opts, strategies: strategies}
}

// NewChainWithStrategies builds a chain with an explicit strategy list.
// Used by tests and callers with custom registries.
func NewChainWithStrategies(opts Options, strategies ...Strategy) *Chain {
	c := NewChain(opts)
	c.strategies = strategies
	return c
}

// SetObserver sets the observability component.
func (c *Chain) SetObserver(observer *observability.StandardObserver) {
	c.observer = observer
}

// Strategies returns the ordered strategy list.
func (c *Chain) Strategies() []Strategy {
	return c.strategies
}

// Budget returns the worst-case wall time for one full chain pass: every
// registered strategy exhausting its own timeout.
func (c *Chain) Budget() time.Duration {
	var total time.Duration
	for _, s := range c.strategies {
		if s.Name() == StrategyNameOCR {
			total += c.opts.OCRTimeout
			continue
		}
		total += c.opts.StrategyTimeout
	}
	return total
}

// Result carries the accepted output and which strategy produced it.
type Result struct {
	Text     string
	Strategy string
}

// Extract runs the chain over the document bytes and returns the first
// accepted strategy output, or a typed failure:
//
//   - FILE_TOO_LARGE before any strategy runs, when input exceeds the limit
//   - TIMEOUT when the caller's overall ctx budget expires
//   - NO_TEXT when every strategy is exhausted below the acceptance bar
func (c *Chain) Extract(ctx context.Context, data []byte) (Result, error) {
	if int64(len(data)) > c.opts.MaxFileSize {
		return Result{}, NewError(FailureFileTooLarge,
			fmt.Sprintf("file size %.1fMB exceeds %dMB limit",
				float64(len(data))/1024/1024, c.opts.MaxFileSize/1024/1024), nil)
	}

	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			return Result{}, NewError(FailureTimeout, "extraction budget exceeded", err)
		}

		timeout := c.opts.StrategyTimeout
		if strategy.Name() == StrategyNameOCR {
			timeout = c.opts.OCRTimeout
		}

		text := c.runStrategy(ctx, strategy, data, timeout)
		if len(strings.TrimSpace(text)) > c.opts.MinTextLength {
			return Result{Text: text, Strategy: strategy.Name()}, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, NewError(FailureTimeout, "extraction budget exceeded", err)
	}

	msg := "unable to extract readable text; the document may be scanned, corrupted, or password-protected"
	if !c.opts.EnableOCR {
		msg = "unable to extract readable text; this may be a scanned document - enable the OCR fallback for image-based PDFs"
	}
	return Result{}, NewError(FailureNoText, msg, nil)
}

// runStrategy invokes one strategy under its own timeout. Errors and
// timeouts are absorbed as empty output: the strategy's goroutine may finish
// after abandonment, in which case its result is simply discarded.
func (c *Chain) runStrategy(parent context.Context, strategy Strategy, data []byte, timeout time.Duration) string {
	var finish func(bool, map[string]any)
	if c.observer != nil {
		finish = c.observer.StartTiming("extract_chain", "strategy_"+strategy.Name(), "")
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		text, err := strategy.Extract(ctx, data)
		done <- result{text: text, err: err}
	}()

	select {
	case res := <-done:
		if finish != nil {
			finish(res.err == nil, map[string]any{
				"strategy": strategy.Name(),
				"chars":    len(res.text),
			})
		}
		if res.err != nil {
			return ""
		}
		return res.text
	case <-ctx.Done():
		if finish != nil {
			finish(false, map[string]any{
				"strategy":  strategy.Name(),
				"timed_out": true,
			})
		}
		return ""
	}
}
