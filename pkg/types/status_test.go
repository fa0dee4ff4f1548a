// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus_Known(t *testing.T) {
	for _, s := range []Status{
		StatusQueued, StatusInProgress, StatusOldGraph, StatusFreshGraph, StatusBadID, StatusError,
		StatusNotInDB, StatusBadToken, StatusBadRequest, StatusOutOfRequests, StatusOverloaded,
	} {
		assert.Equal(t, s, ClassifyStatus(string(s)))
	}
}

func TestClassifyStatus_UnknownIsError(t *testing.T) {
	for _, raw := range []string{"", "queued", "DONE", " FRESH_GRAPH", "OLD_GRAPH\n", "__dict__"} {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, StatusError, ClassifyStatus(raw))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusFreshGraph, true},
		{StatusBadID, true},
		{StatusError, true},
		{StatusNotInDB, true},
		{StatusBadToken, true},
		{StatusBadRequest, true},
		{StatusOutOfRequests, true},
		{StatusQueued, false},
		{StatusInProgress, false},
		{StatusOldGraph, false},
		{StatusOverloaded, false},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Terminal())
		})
	}
}
