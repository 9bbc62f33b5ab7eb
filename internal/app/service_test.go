package app

import (
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/credential"
	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/ui/settings"
)

func testModel(t *testing.T) Model {
	t.Helper()
	return Model{
		creds:      credential.NewStore(keyring.NewArrayKeyring(nil)),
		configPath: filepath.Join(t.TempDir(), "config.yaml"),
	}
}

func storedCredential() model.Credential {
	return model.Credential{
		AppID:     "cli_app",
		AppSecret: "old-secret",
		AppToken:  "bascn_base",
		TableID:   "tbl_records",
		AIKey:     "sk-old",
	}
}

func TestPersistSettingsDisconnectErasesCredential(t *testing.T) {
	m := testModel(t)
	require.NoError(t, m.creds.Save(storedCredential()))

	msg := m.persistSettings(settings.SavedMsg{
		Disconnect: true,
		Config:     model.AppConfig{Vocabulary: "en", PageSize: 100},
	})()

	saved, ok := msg.(settingsSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	assert.True(t, saved.disconnected)

	cred, err := m.creds.Get()
	require.NoError(t, err)
	assert.Nil(t, cred, "disconnect leaves no credential behind")
}

func TestPersistSettingsDisconnectWithoutCredential(t *testing.T) {
	m := testModel(t)

	msg := m.persistSettings(settings.SavedMsg{
		Disconnect: true,
		Config:     model.AppConfig{Vocabulary: "en", PageSize: 100},
	})()

	saved, ok := msg.(settingsSavedMsg)
	require.True(t, ok)
	assert.NoError(t, saved.err, "disconnecting an empty store succeeds")
}

func TestPersistSettingsBlankSecretsKeepStoredValues(t *testing.T) {
	m := testModel(t)
	require.NoError(t, m.creds.Save(storedCredential()))

	submitted := storedCredential()
	submitted.AppSecret = ""
	submitted.AIKey = ""

	msg := m.persistSettings(settings.SavedMsg{
		Credential: submitted,
		Config:     model.AppConfig{Vocabulary: "en", PageSize: 100},
	})()

	saved, ok := msg.(settingsSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	assert.False(t, saved.disconnected)

	cred, err := m.creds.Get()
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "old-secret", cred.AppSecret)
	assert.Equal(t, "sk-old", cred.AIKey)
}
