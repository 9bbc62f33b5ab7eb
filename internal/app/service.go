package app

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lifeos/internal/ai"
	"github.com/nhle/lifeos/internal/credential"
	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/source"
	"github.com/nhle/lifeos/internal/source/bitable"
	"github.com/nhle/lifeos/internal/ui/settings"
)

// buildService assembles the record source for the current config: a
// table adapter wrapped in the sample-data fallback. An unknown
// vocabulary falls back to the default generation rather than failing.
func buildService(cfg *model.AppConfig, creds *credential.Store, baseURL string) *source.Preview {
	mapping, err := bitable.MappingFor(cfg.Vocabulary)
	if err != nil {
		mapping, _ = bitable.MappingFor(bitable.DefaultVocabulary)
	}
	adapter := bitable.NewAdapter(baseURL, creds, mapping, cfg.PageSize)
	return source.NewPreview(adapter)
}

// loadOptimizer creates the capture assistant. The API key comes from
// the environment variable or, failing that, the stored credential.
func loadOptimizer(cfg *model.AppConfig, creds *credential.Store) *ai.Optimizer {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		if cred, err := creds.Get(); err == nil && cred != nil {
			apiKey = cred.AIKey
		}
	}
	return ai.New(apiKey, cfg.AI.Model, cfg.AI.MaxTokens)
}

// persistSettings writes the submitted settings: credential and secrets
// to the keyring, everything else to the config file. Blank secrets keep
// their stored values. A disconnect erases the credential instead of
// saving one.
func (m *Model) persistSettings(saved settings.SavedMsg) tea.Cmd {
	creds := m.creds
	configPath := m.configPath
	return func() tea.Msg {
		if saved.Disconnect {
			if err := creds.Clear(); err != nil {
				return settingsSavedMsg{err: fmt.Errorf("clearing credential: %w", err)}
			}
			// Preference edits from the same submission still count.
			cfg := saved.Config
			if err := model.SaveConfig(configPath, &cfg); err != nil {
				return settingsSavedMsg{err: fmt.Errorf("saving config: %w", err)}
			}
			return settingsSavedMsg{disconnected: true}
		}

		cred := saved.Credential

		existing, err := creds.Get()
		if err != nil {
			return settingsSavedMsg{err: fmt.Errorf("reading stored credential: %w", err)}
		}
		if existing != nil {
			if cred.AppSecret == "" {
				cred.AppSecret = existing.AppSecret
			}
			if cred.AIKey == "" {
				cred.AIKey = existing.AIKey
			}
		}

		if err := creds.Save(cred); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("saving credential: %w", err)}
		}

		if saved.MailPassword != "" {
			if err := creds.SetSecret(credential.MailPasswordKey, saved.MailPassword); err != nil {
				return settingsSavedMsg{err: fmt.Errorf("saving mail password: %w", err)}
			}
		}

		cfg := saved.Config
		if err := model.SaveConfig(configPath, &cfg); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("saving config: %w", err)}
		}

		return settingsSavedMsg{}
	}
}
