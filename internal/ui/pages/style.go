package pages

//go:generate go tool templ generate

import (
	"context"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/littlesteps/booking/internal/ctxkeys"
)

const (
	cardClass   = "mx-auto my-16 max-w-xl rounded-lg border border-stone-200 bg-white p-8 shadow-sm"
	buttonClass = "inline-block rounded-md bg-teal-700 px-4 py-2 font-medium text-white hover:bg-teal-800"
	mutedClass  = "muted text-sm text-stone-500"
)

// tone picks the heading colour for a state page.
type tone int

const (
	toneNeutral tone = iota
	toneSuccess
	toneWarning
	toneError
)

func (t tone) class() string {
	switch t {
	case toneSuccess:
		return "text-teal-800"
	case toneWarning:
		return "text-amber-700"
	case toneError:
		return "text-red-700"
	}
	return "text-stone-900"
}

func headingClass(t tone) string {
	return twmerge.Merge("text-2xl font-semibold", t.class())
}

func appName(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		return cfg.AppName
	}
	return "Little Steps"
}

func appURL(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil {
		return cfg.AppURL
	}
	return ""
}

func maintenanceMessage(message string) string {
	if message == "" {
		return "We're making some improvements and will be back shortly."
	}
	return message
}
