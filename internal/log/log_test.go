// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitLoggerTo(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		emit    func()
		want    string
		wantOut bool
	}{
		{"error default hides warn", "", func() { Warnf("w %d", 1) }, "", false},
		{"warn shows warn", "warn", func() { Warnf("w %d", 1) }, " W w 1", true},
		{"debug shows debug", "DEBUG", func() { Debugf("d") }, " D d", true},
		{"debug hides trace", "debug", func() { Tracef("t") }, "", false},
		{"trace shows trace", "trace", func() { Tracef("t %s", "x") }, " T t x", true},
		{"fields are appended", "info", func() { WithField("tag", "2.5").Info("built") }, " I built tag=2.5", true},
		{"error entry", "error", func() { WithError(errors.New("boom")).Error("failed") }, " E failed error=boom", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			InitLoggerTo(&buf, tt.level)
			tt.emit()
			if !tt.wantOut {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
