package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

func setRequired(t *testing.T) {
	t.Setenv("AGENT_NAME", "relay-agent")
	t.Setenv("SIGNER_SEED", testSeed)
	t.Setenv("NAMESPACE_ID", "ns-1")
}

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)
	setRequired(t)

	config, err := Load()

	req.NoError(err)
	req.Equal("relay-agent", config.AgentName)
	req.Equal(BackendLocal, config.LedgerBackend)
	req.Equal("General", config.DefaultRoom)
	req.Equal(5*time.Second, config.PollInterval)
	req.Equal(20, config.PollBatchSize)
	req.Equal(10_000, config.SeenCapacity)
	req.Equal("localhost:8080", config.Address())
}

func TestLoad_Missing_Signer(t *testing.T) {
	req := require.New(t)
	t.Setenv("AGENT_NAME", "relay-agent")
	t.Setenv("NAMESPACE_ID", "ns-1")
	t.Setenv("SIGNER_SEED", "")

	_, err := Load()

	req.Error(err)
}

func TestLoad_Invalid_Values(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown backend", key: "LEDGER_BACKEND", value: "cloud"},
		{name: "batch size too large", key: "POLL_BATCH_SIZE", value: "1000"},
		{name: "api url not an url", key: "API_BASE_URL", value: "not a url"},
		{name: "social url without token", key: "SOCIAL_BASE_URL", value: "https://social.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			require.Error(t, err)
		})
	}
}

func TestConfig_RoomList(t *testing.T) {
	req := require.New(t)
	config := Config{Rooms: " Trading, ,general ,TRADING,memes"}

	req.Equal([]string{"Trading", "general", "memes"}, config.RoomList())
	req.Empty(Config{}.RoomList())
}

func TestDefaultMapper(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 1, 1, 12, 30, 45, 0, time.UTC)
	key := "row:abcdef:" + "1767270645000000000" + ":0123456789abcdef"

	row := DefaultMapper(key, []byte("{}"))

	req.Equal("ROW", row.Type)
	req.Equal("abcdef", row.Namespace)
	req.Equal(at.Format("15:04:05"), row.Timestamp)
	req.Equal("01234567", row.EntityID)

	raw := DefaultMapper("other", []byte("abc"))
	req.Equal("RAW", raw.Type)
	req.Equal("Size: 3 bytes", raw.Detail)
}
