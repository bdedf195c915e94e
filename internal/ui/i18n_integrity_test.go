package ui_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-countdown/internal/config"
)

// translationKeys lists every key the UI resolves at runtime.
var translationKeys = []string{
	config.TKeyWinTitle,
	config.TKeyWinSettings,
	config.TKeyHeadline,
	config.TKeyUnitDays,
	config.TKeyUnitHours,
	config.TKeyUnitMinutes,
	config.TKeyUnitSeconds,
	config.TKeyUrgentBanner,
	config.TKeyCardTitle,
	config.TKeyCardLocked,
	config.TKeyCardBack,
	config.TKeyCardBodyDefault,
	config.TKeyRevealTitle,
	config.TKeyRevealLocked,
	config.TKeyRevealDefault,
	config.TKeyMenuShow,
	config.TKeyMenuExport,
	config.TKeyMenuSettings,
	config.TKeyBtnExport,
	config.TKeyBtnSave,
	config.TKeyBtnCancel,
	config.TKeyLblSchedule,
	config.TKeyLblStart,
	config.TKeyLblEnd,
	config.TKeyLblAnniversary,
	config.TKeyLblSteps,
	config.TKeyHelpDate,
	config.TKeyHelpSteps,
	config.TKeyLblGeneral,
	config.TKeyLblLanguage,
	config.TKeyLblAutostart,
	config.TKeyLblSurprise,
	config.TKeyHelpSurprise,
	config.TKeyLblFooter,
	config.TKeyNotifExportOK,
	config.TKeyNotifExportErr,
	config.TKeyEvtStep,
	config.TKeyEvtAnniversary,
	config.TKeyEvtFinale,
	config.TKeyFormatDate,
	config.TKeyErrDateFormat,
	config.TKeyErrStepsRange,
}

// pluralKeys must provide both the "one" and "other" forms.
var pluralKeys = []string{
	config.TKeyUnitDays,
	config.TKeyUnitHours,
	config.TKeyUnitMinutes,
	config.TKeyUnitSeconds,
}

func loadLocale(t *testing.T, lang string) map[string]interface{} {
	t.Helper()

	name := "active." + lang + ".json"
	path := filepath.Join("locales", name)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// Fallback for running tests from different CWD
		path = filepath.Join("..", "..", "internal", "ui", "locales", name)
		content, err = os.ReadFile(path)
	}
	require.NoError(t, err, "Must load %s", name)

	var jsonMap map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &jsonMap), "%s must be valid JSON", name)
	return jsonMap
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in every supported locale.
func TestI18nIntegrity(t *testing.T) {
	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			jsonMap := loadLocale(t, lang)

			for _, key := range translationKeys {
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' defined in config.go is missing in active.%s.json", key, lang)
			}

			for _, key := range pluralKeys {
				forms, ok := jsonMap[key].(map[string]interface{})
				if assert.Truef(t, ok, "Key '%s' must be a plural object", key) {
					assert.Contains(t, forms, "one")
					assert.Contains(t, forms, "other")
				}
			}

			for step := 1; step <= config.DefaultTotalSteps; step++ {
				key := fmt.Sprintf(config.FormatCardBodyKey, step)
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Default schedule card '%s' is missing in active.%s.json", key, lang)
			}
		})
	}
}

// TestI18nNoOrphans flags keys present in the English file that nothing resolves.
func TestI18nNoOrphans(t *testing.T) {
	known := make(map[string]bool, len(translationKeys))
	for _, k := range translationKeys {
		known[k] = true
	}

	for jsonKey := range loadLocale(t, config.DefaultLanguage) {
		if strings.HasPrefix(jsonKey, "_") || strings.HasPrefix(jsonKey, "card_body_") {
			continue
		}
		assert.Truef(t, known[jsonKey], "Key '%s' exists in JSON but is never used", jsonKey)
	}
}
