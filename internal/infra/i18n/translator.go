package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

// BaseLocale must define every key; other locales may be partial.
const BaseLocale = "en"

// Translator resolves user-facing message keys for one locale.
type Translator struct {
	lang         string
	translations map[string]string
}

// NewTranslator loads the base locale and overlays langCode on top of it.
// A region tag such as "hi-IN" falls back to "hi".
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	base, err := readLocale(fsys, BaseLocale)
	if err != nil {
		return nil, err
	}
	lang := strings.ToLower(strings.TrimSpace(langCode))
	if lang == "" || lang == BaseLocale {
		return &Translator{lang: BaseLocale, translations: base}, nil
	}

	overlay, err := readLocale(fsys, lang)
	if errors.Is(err, fs.ErrNotExist) {
		if primary, _, ok := strings.Cut(lang, "-"); ok {
			lang = primary
			if lang == BaseLocale {
				return &Translator{lang: BaseLocale, translations: base}, nil
			}
			overlay, err = readLocale(fsys, lang)
		}
	}
	if err != nil {
		return nil, err
	}
	for k, v := range overlay {
		base[k] = v
	}
	return &Translator{lang: lang, translations: base}, nil
}

func readLocale(fsys fs.FS, lang string) (map[string]string, error) {
	filePath := path.Join("locales", lang+".yaml")
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("read locale %s: %w", filePath, err)
	}
	m, err := parseLocale(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return m, nil
}

func parseLocale(data []byte) (map[string]string, error) {
	translations := map[string]string{}
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("parse locale: %w", err)
	}
	return translations, nil
}

func newTranslatorFromBytes(data []byte) (*Translator, error) {
	m, err := parseLocale(data)
	if err != nil {
		return nil, err
	}
	return &Translator{lang: BaseLocale, translations: m}, nil
}

// Lang is the locale actually loaded.
func (t *Translator) Lang() string { return t.lang }

// T returns the message for key, formatted with args. Unknown keys come back
// unchanged.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}
