// Copyright 2026 The Traveldesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

// metricsLog collects one round-trip timing sample per server request
// and appends them to a CSV file when the session ends. An empty path
// disables collection entirely.
type metricsLog struct {
	path    string
	samples []timingSample
}

type timingSample struct {
	operation string
	roundTrip time.Duration
}

func newMetricsLog(path string) *metricsLog {
	return &metricsLog{path: path}
}

// observe starts timing one request. The returned stop function records
// the sample; call it exactly once, typically via defer.
func (m *metricsLog) observe(operation string) func() {
	if m.path == "" {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.samples = append(m.samples, timingSample{
			operation: operation,
			roundTrip: time.Since(start),
		})
	}
}

// save appends the collected samples to the CSV file, writing the
// header row only when the file is new.
func (m *metricsLog) save() error {
	if m.path == "" || len(m.samples) == 0 {
		return nil
	}

	_, statErr := os.Stat(m.path)
	isNew := os.IsNotExist(statErr)

	file, err := os.OpenFile(m.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if isNew {
		if err := writer.Write([]string{"operation", "rtt_ms"}); err != nil {
			return err
		}
	}
	for _, sample := range m.samples {
		record := []string{
			sample.operation,
			fmt.Sprintf("%.3f", float64(sample.roundTrip.Microseconds())/1000),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
