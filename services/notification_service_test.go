package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderMailEscapesAndDropsBlanks(t *testing.T) {
	body, err := renderMail("Hello <team>", []string{"  ", "a & b"}, []mailRow{{"Role", "<leader>"}, {"", "x"}})
	require.NoError(t, err)

	assert.Contains(t, body, "Hello &lt;team&gt;")
	assert.Contains(t, body, "a &amp; b")
	assert.Contains(t, body, "&lt;leader&gt;")
	assert.Equal(t, 1, strings.Count(body, "<tr>"))
	assert.Equal(t, 1, strings.Count(body, "<p "))
}

func TestSyncSummaryListsFailures(t *testing.T) {
	var sent []string
	n := &Notifier{
		send: func(to []string, subject, body string) error {
			sent = append(sent, subject, body)
			return nil
		},
		enabled: func() bool { return true },
		logger:  zap.NewNop(),
	}
	result := &SyncResult{
		Message: "Synchronization completed",
		Stats:   &SyncStats{Added: 1, Failed: 1},
		Items: []ItemResult{
			{Outcome: OutcomeAdded, ExternalID: "doi:10.1/a"},
			{Outcome: OutcomeFailed, ExternalID: "put-code:7", Reason: "boom"},
		},
	}

	require.NoError(t, n.SyncSummary([]string{"ops@example.edu"}, "0000-0002-1825-0097", result))
	require.Len(t, sent, 2)
	assert.Equal(t, "ORCID sync summary 0000-0002-1825-0097", sent[0])
	assert.Contains(t, sent[1], "put-code:7 failed: boom")
	assert.NotContains(t, sent[1], "doi:10.1/a")

	sent = nil
	require.NoError(t, n.SyncSummary(nil, "0000-0002-1825-0097", result))
	assert.Empty(t, sent)
}
