// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// StrategyNameContentStream identifies the page-content-stream parser.
const StrategyNameContentStream = "content-stream"

// ContentStreamStrategy extracts text by decoding page content streams with
// pdfcpu and pulling the string operands of text-showing operators. Lower
// fidelity than the structured parser (no spacing reconstruction) but
// tolerant of documents the object-model parser chokes on.
type ContentStreamStrategy struct {
	conf *model.Configuration
}

// NewContentStreamStrategy creates the content-stream parsing strategy.
func NewContentStreamStrategy() *ContentStreamStrategy {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &ContentStreamStrategy{conf: conf}
}

// Name implements Strategy.
func (s *ContentStreamStrategy) Name() string { return StrategyNameContentStream }

// Extract implements Strategy.
func (s *ContentStreamStrategy) Extract(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("content-stream parse panic: %v", r)
		}
	}()

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), s.conf)
	if err != nil {
		return "", fmt.Errorf("reading PDF context: %w", err)
	}

	var buf bytes.Buffer
	for page := 1; page <= pdfCtx.PageCount; page++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		r, err := pdfcpu.ExtractPageContent(pdfCtx, page)
		if err != nil || r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			continue
		}

		pageText := textFromContentStream(content)
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(pageText)
	}

	return cleanExtractedText(buf.String()), nil
}

// textFromContentStream collects the literal-string operands inside BT..ET
// text objects. Hex strings are skipped: without font decoding they are
// usually CID-encoded and unreadable anyway.
func textFromContentStream(content []byte) string {
	var out strings.Builder
	inText := false

	for i := 0; i < len(content); i++ {
		switch {
		case !inText && hasToken(content, i, "BT"):
			inText = true
			i++
		case inText && hasToken(content, i, "ET"):
			inText = false
			if out.Len() > 0 {
				out.WriteString("\n")
			}
			i++
		case inText && content[i] == '(':
			literal, end := parseStringLiteral(content, i)
			if strings.TrimSpace(literal) != "" {
				out.WriteString(literal)
				out.WriteString(" ")
			}
			i = end
		}
	}

	return out.String()
}

// hasToken reports whether a two-character operator token starts at i,
// delimited by non-regular characters on both sides.
func hasToken(content []byte, i int, token string) bool {
	if i+len(token) > len(content) {
		return false
	}
	if string(content[i:i+len(token)]) != token {
		return false
	}
	if i > 0 && isRegularChar(content[i-1]) {
		return false
	}
	if i+len(token) < len(content) && isRegularChar(content[i+len(token)]) {
		return false
	}
	return true
}

func isRegularChar(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0, '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	}
	return true
}

// parseStringLiteral reads a PDF literal string starting at the opening
// parenthesis, handling nested parens, backslash escapes, and octal codes.
// Returns the decoded string and the index of the closing parenthesis.
func parseStringLiteral(content []byte, start int) (string, int) {
	var out strings.Builder
	depth := 0
	i := start

	for ; i < len(content); i++ {
		b := content[i]
		switch b {
		case '(':
			depth++
			if depth > 1 {
				out.WriteByte(b)
			}
		case ')':
			depth--
			if depth == 0 {
				return out.String(), i
			}
			out.WriteByte(b)
		case '\\':
			if i+1 >= len(content) {
				return out.String(), i
			}
			i++
			switch c := content[i]; c {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case 'b', 'f':
				// backspace/formfeed are noise in extracted text
			case '(', ')', '\\':
				out.WriteByte(c)
			case '\r', '\n':
				// line continuation
			default:
				if c >= '0' && c <= '7' {
					val := int(c - '0')
					for n := 0; n < 2 && i+1 < len(content) && content[i+1] >= '0' && content[i+1] <= '7'; n++ {
						i++
						val = val*8 + int(content[i]-'0')
					}
					if val >= 32 && val < 127 {
						out.WriteByte(byte(val))
					}
				} else {
					out.WriteByte(c)
				}
			}
		default:
			if depth > 0 {
				out.WriteByte(b)
			}
		}
	}
	return out.String(), i
}
