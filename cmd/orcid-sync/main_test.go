package main

import (
	"bytes"
	"errors"
	"testing"

	"academic-management-api/services"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	ok := outcome{orcidID: "0000-0002-1825-0097", result: &services.SyncResult{Success: true, Message: "done", Stats: &services.SyncStats{Added: 2}}}
	itemFailed := outcome{orcidID: "0000-0001-5109-3700", result: &services.SyncResult{Success: true, Message: "partial", Stats: &services.SyncStats{Failed: 1}}}
	runFailed := outcome{orcidID: "0000-0003-1234-567X", err: errors.New("registry down")}

	var out, errOut bytes.Buffer
	assert.NoError(t, summarize(&out, &errOut, []outcome{ok}))
	assert.Equal(t, "0000-0002-1825-0097: done\n", out.String())

	assert.ErrorIs(t, summarize(&out, &errOut, []outcome{ok, itemFailed}), errSyncFailures)

	errOut.Reset()
	assert.ErrorIs(t, summarize(&out, &errOut, []outcome{runFailed}), errSyncFailures)
	assert.Contains(t, errOut.String(), "registry down")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, exitFailures, exitCode(errSyncFailures))
	assert.Equal(t, exitError, exitCode(errors.New("bad flag")))
}
