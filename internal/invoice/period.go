// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	monthYearPattern = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?,?\s+(?:\d{1,2},?\s+)?(\d{4})\b`)
	numericPattern   = regexp.MustCompile(`\b(\d{1,2})/(?:\d{1,2}/)?(\d{4})\b`)
	isoPattern       = regexp.MustCompile(`\b(\d{4})-(\d{2})\b`)

	monthNumbers = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)

// CurrentMonth returns the current month as YYYY-MM.
func CurrentMonth() string {
	return time.Now().UTC().Format("2006-01")
}

// InferPeriodFromText infers the billing period (YYYY-MM) from invoice text
// using common date shapes: month-name dates, M/D/YYYY, and YYYY-MM. The
// first recognizable date wins; when nothing matches, the current month is
// assumed.
func InferPeriodFromText(text string) string {
	if m := monthYearPattern.FindStringSubmatch(text); m != nil {
		month := monthNumbers[strings.ToLower(m[1])]
		return fmt.Sprintf("%s-%02d", m[2], month)
	}

	if m := numericPattern.FindStringSubmatch(text); m != nil {
		month, err := strconv.Atoi(m[1])
		if err == nil && month >= 1 && month <= 12 {
			return fmt.Sprintf("%s-%02d", m[2], month)
		}
	}

	if m := isoPattern.FindStringSubmatch(text); m != nil {
		month, err := strconv.Atoi(m[2])
		if err == nil && month >= 1 && month <= 12 {
			return fmt.Sprintf("%s-%s", m[1], m[2])
		}
	}

	return CurrentMonth()
}
