// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"bufio"
	"crypto/hmac"
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult summarises a chain check.
type VerifyResult struct {
	Entries int
	Valid   bool
	Issues  []string
}

// VerifyFile recomputes every MAC in the audit file at path.
// An error is returned only when the file cannot be read; chain problems
// are reported in the result.
func VerifyFile(path string, key []byte) (VerifyResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var (
		result VerifyResult
		prev   string
		lineNo int
	)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		result.Entries++

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			result.Issues = append(result.Issues, fmt.Sprintf("line %d: malformed record: %v", lineNo, err))
			continue
		}
		if rec.Prev != prev {
			result.Issues = append(result.Issues, fmt.Sprintf("line %d: chain broken (record does not follow the previous one)", lineNo))
		}

		want, err := computeMAC(key, rec.Prev, rec.Event)
		if err != nil {
			return result, err
		}
		if !hmac.Equal([]byte(want), []byte(rec.MAC)) {
			result.Issues = append(result.Issues, fmt.Sprintf("line %d: MAC mismatch (%s)", lineNo, rec.EventType))
		}
		prev = rec.MAC
	}
	if err := sc.Err(); err != nil {
		return result, fmt.Errorf("read audit log: %w", err)
	}

	result.Valid = len(result.Issues) == 0
	return result, nil
}
