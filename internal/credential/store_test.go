package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/model"
)

func testStore() *Store {
	return NewStore(keyring.NewArrayKeyring(nil))
}

func completeCredential() model.Credential {
	return model.Credential{
		AppID:     "cli_test",
		AppSecret: "secret",
		AppToken:  "bascn_token",
		TableID:   "tbl_records",
	}
}

func TestGetMissingCredential(t *testing.T) {
	s := testStore()

	cred, err := s.Get()
	require.NoError(t, err)
	assert.Nil(t, cred, "absence is not an error")
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := testStore()
	want := completeCredential()
	want.AIKey = "sk-test"

	require.NoError(t, s.Save(want))

	got, err := s.Get()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestGetIncompleteCredentialIsNil(t *testing.T) {
	s := testStore()
	partial := completeCredential()
	partial.TableID = ""

	require.NoError(t, s.Save(partial))

	got, err := s.Get()
	require.NoError(t, err)
	assert.Nil(t, got, "a credential missing required fields counts as absent")
}

func TestGetMalformedEntryIsNil(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	require.NoError(t, ring.Set(keyring.Item{Key: "remote-table-credential", Data: []byte("not json")}))
	s := NewStore(ring)

	got, err := s.Get()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClearIsIdempotent(t *testing.T) {
	s := testStore()
	require.NoError(t, s.Clear(), "clearing an empty store succeeds")

	require.NoError(t, s.Save(completeCredential()))
	require.NoError(t, s.Clear())

	got, err := s.Get()
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Clear())
}

func TestSecrets(t *testing.T) {
	s := testStore()

	val, err := s.GetSecret(MailPasswordKey)
	require.NoError(t, err)
	assert.Empty(t, val, "missing secrets read as empty")

	require.NoError(t, s.SetSecret(MailPasswordKey, "imap-pass"))

	val, err = s.GetSecret(MailPasswordKey)
	require.NoError(t, err)
	assert.Equal(t, "imap-pass", val)

	// Secrets live alongside the credential without clobbering it.
	require.NoError(t, s.Save(completeCredential()))
	val, err = s.GetSecret(MailPasswordKey)
	require.NoError(t, err)
	assert.Equal(t, "imap-pass", val)
}
