// Package i18n localizes user-facing messages. Messages are keyed by their
// English text; Spanish is the default locale.
package i18n

import (
	"context"
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supported = []language.Tag{language.Spanish, language.English}

type ctxKey struct{}

// Localizer resolves request languages and translates message keys.
type Localizer struct {
	catalog  *catalog.Builder
	matcher  language.Matcher
	fallback language.Tag
}

// New builds a Localizer whose fallback is defaultLocale (es when empty or unknown).
func New(defaultLocale string) *Localizer {
	builder := catalog.NewBuilder(catalog.Fallback(language.Spanish))
	for key, es := range spanish {
		_ = builder.SetString(language.Spanish, key, es)
		_ = builder.SetString(language.English, key, key)
	}

	l := &Localizer{
		catalog:  builder,
		matcher:  language.NewMatcher(supported),
		fallback: language.Spanish,
	}
	if strings.TrimSpace(defaultLocale) != "" {
		if tag, ok := l.match(defaultLocale); ok {
			l.fallback = tag
		}
	}
	return l
}

// Default returns the locale used when a request names none we support.
func (l *Localizer) Default() language.Tag {
	return l.fallback
}

// Match picks a supported language from an Accept-Language header value.
func (l *Localizer) Match(acceptLanguage string) language.Tag {
	if tag, ok := l.match(acceptLanguage); ok {
		return tag
	}
	return l.fallback
}

func (l *Localizer) match(value string) (language.Tag, bool) {
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return language.Und, false
	}
	_, idx, conf := l.matcher.Match(tags...)
	if conf == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// Translate returns key in the given language. Unknown keys are returned unchanged.
func (l *Localizer) Translate(tag language.Tag, key string) string {
	if key == "" {
		return ""
	}
	if _, known := spanish[key]; !known {
		return key
	}
	return message.NewPrinter(tag, message.Catalog(l.catalog)).Sprintf(key)
}

// WithLanguage stores the request language on ctx.
func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// LanguageFromContext returns the language stored on ctx, if any.
func LanguageFromContext(ctx context.Context) (language.Tag, bool) {
	if ctx == nil {
		return language.Und, false
	}
	tag, ok := ctx.Value(ctxKey{}).(language.Tag)
	return tag, ok
}

// TranslateContext translates key using the language carried by ctx.
func (l *Localizer) TranslateContext(ctx context.Context, key string) string {
	tag, ok := LanguageFromContext(ctx)
	if !ok {
		tag = l.fallback
	}
	return l.Translate(tag, key)
}

var shared atomic.Pointer[Localizer]

func init() {
	shared.Store(New(""))
}

// SetDefault replaces the localizer used by T. cmd/api installs the one built
// from the configured default locale before serving.
func SetDefault(l *Localizer) {
	if l != nil {
		shared.Store(l)
	}
}

// T translates key with the language carried by ctx, falling back to the
// default localizer's locale.
func T(ctx context.Context, key string) string {
	return shared.Load().TranslateContext(ctx, key)
}
