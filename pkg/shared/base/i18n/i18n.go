// 指示: miu200521358
// Package i18n はメッセージキーの翻訳を提供する。
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	// missingMark は未翻訳キーを囲む印。
	missingMark = "●●"
)

// II18n は翻訳の契約を表す。
type II18n interface {
	// Lang は表示言語を返す。
	Lang() string
	// Has はキーの翻訳があるか判定する。
	Has(key string) bool
	// T はキーを翻訳し、引数を埋め込む。
	T(key string, params ...any) string
}

// I18n は x/text のカタログを使った翻訳を表す。
type I18n struct {
	lang    string
	printer *message.Printer
	keys    map[string]struct{}
}

// NewI18n は言語ごとの翻訳表からカタログを構築し、lang の翻訳を生成する。
func NewI18n(lang string, table map[string]map[string]string) (*I18n, error) {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return nil, fmt.Errorf("表示言語が不正です: %s: %w", lang, err)
	}
	builder := catalog.NewBuilder(catalog.Fallback(tag))
	keys := map[string]struct{}{}
	langs := make([]string, 0, len(table))
	for name := range table {
		langs = append(langs, name)
	}
	sort.Strings(langs)
	for _, name := range langs {
		entryTag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("翻訳表の言語が不正です: %s: %w", name, err)
		}
		for key, text := range table[name] {
			if err := builder.SetString(entryTag, key, text); err != nil {
				return nil, fmt.Errorf("翻訳の登録に失敗しました: %s: %w", key, err)
			}
			if entryTag == tag {
				keys[key] = struct{}{}
			}
		}
	}
	return &I18n{
		lang:    tag.String(),
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		keys:    keys,
	}, nil
}

// Lang は表示言語を返す。
func (i *I18n) Lang() string {
	return i.lang
}

// Has はキーの翻訳があるか判定する。
func (i *I18n) Has(key string) bool {
	_, ok := i.keys[key]
	return ok
}

// T はキーを翻訳し、引数を埋め込む。
func (i *I18n) T(key string, params ...any) string {
	return i.printer.Sprintf(key, params...)
}

// TranslateOrMark は翻訳があれば翻訳を、なければ印付きのキーを返す。
func TranslateOrMark(translator II18n, key string, params ...any) string {
	if translator == nil || !translator.Has(key) {
		return missingMark + key + missingMark
	}
	return translator.T(key, params...)
}
