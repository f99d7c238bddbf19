package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const DefaultLocale = "en"

type Translations map[string]string

var (
	locales = make(map[string]Translations)
	mu      sync.RWMutex
)

// LoadTranslations reads <localePath>/<locale>/comments.yaml for every locale
// directory. Directories without the file are skipped.
func LoadTranslations(localePath string) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := os.ReadDir(localePath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := filepath.Join(localePath, locale, "comments.yaml")

		data, err := os.ReadFile(filePath)
		if err != nil {
			continue
		}

		var catalog struct {
			Messages Translations `yaml:"MESSAGES"`
		}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		locales[locale] = catalog.Messages
	}

	return nil
}

// Translate falls back to English, then to the key itself.
func Translate(locale, key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != DefaultLocale {
		if trans, ok := locales[DefaultLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}

// Negotiate picks the first loaded locale named in an Accept-Language header.
func Negotiate(acceptLanguage string) string {
	mu.RLock()
	defer mu.RUnlock()

	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := locales[base]; ok {
			return base
		}
	}
	return DefaultLocale
}
