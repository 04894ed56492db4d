package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsumer_HandleMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "oauth.log")
	c := &Consumer{LogPath: path, Logger: zap.NewNop()}

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	body, err := json.Marshal(TokenEvent{
		Event:                EventTokenIssued,
		ClientID:             "client-app",
		SubjectID:            "u-1",
		GrantType:            "password",
		AccessTokenExpiresAt: at.Add(time.Hour),
		OccurredAt:           at,
	})
	require.NoError(t, err)

	require.NoError(t, c.HandleMessage(body))
	require.NoError(t, c.HandleMessage(body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"[2026-01-02T03:04:05Z] token.issued | client_id=client-app | subject_id=u-1 | grant_type=password | expires_at=2026-01-02T04:04:05Z",
		lines[0])
}

func TestConsumer_HandleMessageRejectsGarbage(t *testing.T) {
	c := &Consumer{LogPath: filepath.Join(t.TempDir(), "oauth.log"), Logger: zap.NewNop()}
	require.Error(t, c.HandleMessage([]byte("{not json")))
	require.Error(t, c.HandleMessage([]byte(`{"client_id":"x"}`)))
}
