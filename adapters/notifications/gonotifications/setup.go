package gonotifications

import (
	"context"
	"html"
	"strings"

	i18n "github.com/goliatone/go-i18n"
	"github.com/goliatone/go-notifications/pkg/adapters"
	"github.com/goliatone/go-notifications/pkg/adapters/console"
	notifsmtp "github.com/goliatone/go-notifications/pkg/adapters/smtp"
	notifconfig "github.com/goliatone/go-notifications/pkg/config"
	"github.com/goliatone/go-notifications/pkg/inbox"
	"github.com/goliatone/go-notifications/pkg/interfaces/broadcaster"
	"github.com/goliatone/go-notifications/pkg/interfaces/cache"
	notiflogger "github.com/goliatone/go-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-notifications/pkg/notifier"
	"github.com/goliatone/go-notifications/pkg/onready"
	"github.com/goliatone/go-notifications/pkg/storage"
	"github.com/goliatone/go-notifications/pkg/templates"
	"github.com/rs/zerolog"
)

const defaultFrom = "no-reply@example.com"

// SMTP configures the optional email adapter.
type SMTP struct {
	Host          string
	Port          int
	From          string
	Username      string
	Password      string
	UseTLS        bool
	UseStartTLS   bool
	SkipTLSVerify bool
	AuthDisabled  bool
	PlainOnly     bool
}

// Options configures the in-memory notification stack.
type Options struct {
	Recipients    []string
	DefaultLocale string
	SMTP          SMTP
}

// Setup builds an in-memory go-notifications stack with the document-ready
// definition registered. Messages go to the console adapter, and to SMTP when
// a host is configured.
func Setup(ctx context.Context, logger zerolog.Logger, opts Options) (*Notifier, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	locale := opts.DefaultLocale
	if locale == "" {
		locale = "en"
	}

	store := i18n.NewStaticStore(onready.Translations())
	translator, err := i18n.NewSimpleTranslator(store, i18n.WithTranslatorDefaultLocale(locale))
	if err != nil {
		return nil, err
	}

	providers := storage.NewMemoryProviders()
	logSink := zerologSink{base: logger.With().Str("component", "notifications").Logger()}
	tplSvc, err := templates.New(templates.Dependencies{
		Repository:    providers.Templates,
		Cache:         &cache.Nop{},
		Logger:        logSink,
		Translator:    translator,
		Fallbacks:     i18n.NewStaticFallbackResolver(),
		DefaultLocale: locale,
	})
	if err != nil {
		return nil, err
	}

	inboxSvc, err := inbox.New(inbox.Dependencies{
		Repository:  providers.Inbox,
		Broadcaster: &broadcaster.Nop{},
		Logger:      logSink,
	})
	if err != nil {
		return nil, err
	}

	regResult, err := onready.Register(ctx, onready.Dependencies{
		Definitions: providers.Definitions,
		Templates:   tplSvc,
	}, onready.Options{})
	if err != nil {
		return nil, err
	}

	registry := adapters.NewRegistry(buildAdapters(logSink, opts.SMTP)...)
	manager, err := notifier.New(notifier.Dependencies{
		Definitions: providers.Definitions,
		Events:      providers.Events,
		Messages:    providers.Messages,
		Attempts:    providers.DeliveryAttempts,
		Templates:   tplSvc,
		Adapters:    registry,
		Logger:      logSink,
		Config: notifconfig.DispatcherConfig{
			EnvFallbackAllowlist: opts.Recipients,
		},
		Inbox: inboxSvc,
	})
	if err != nil {
		return nil, err
	}

	ready, err := onready.NewNotifier(manager, regResult.DefinitionCode)
	if err != nil {
		return nil, err
	}
	return NewNotifier(ready), nil
}

func buildAdapters(logSink notiflogger.Logger, cfg SMTP) []adapters.Messenger {
	list := make([]adapters.Messenger, 0, 2)
	if strings.TrimSpace(cfg.Host) != "" {
		from := strings.TrimSpace(cfg.From)
		if from == "" {
			from = defaultFrom
		}
		smtpAdapter := notifsmtp.New(logSink, notifsmtp.WithConfig(notifsmtp.Config{
			Host:          cfg.Host,
			Port:          cfg.Port,
			From:          from,
			Username:      cfg.Username,
			Password:      cfg.Password,
			UseTLS:        cfg.UseTLS,
			UseStartTLS:   cfg.UseStartTLS,
			SkipTLSVerify: cfg.SkipTLSVerify,
			AuthDisabled:  cfg.AuthDisabled,
			PlainOnly:     cfg.PlainOnly,
		}))
		list = append(list, smtpDefaults{base: smtpAdapter, from: from})
	}
	list = append(list, console.New(logSink))
	return list
}

// smtpDefaults fills the sender and HTML body the SMTP adapter expects.
type smtpDefaults struct {
	base adapters.Messenger
	from string
}

func (a smtpDefaults) Name() string { return a.base.Name() }

func (a smtpDefaults) Capabilities() adapters.Capability { return a.base.Capabilities() }

func (a smtpDefaults) Send(ctx context.Context, msg adapters.Message) error {
	msg.Subject = html.UnescapeString(msg.Subject)
	if msg.Metadata == nil {
		msg.Metadata = make(map[string]any)
	}
	if _, ok := msg.Metadata["from"]; !ok {
		msg.Metadata["from"] = a.from
	}
	if _, ok := msg.Metadata["html_body"]; !ok && strings.TrimSpace(msg.Body) != "" {
		msg.Metadata["html_body"] = msg.Body
	}
	return a.base.Send(ctx, msg)
}

// zerologSink routes go-notifications logs into zerolog.
type zerologSink struct {
	base zerolog.Logger
}

func (l zerologSink) With(fields ...notiflogger.Field) notiflogger.Logger {
	c := l.base.With()
	for _, field := range fields {
		c = c.Interface(field.Key, field.Value)
	}
	return zerologSink{base: c.Logger()}
}

func (l zerologSink) Debug(msg string, fields ...notiflogger.Field) {
	l.log(l.base.Debug(), msg, fields)
}

func (l zerologSink) Info(msg string, fields ...notiflogger.Field) {
	l.log(l.base.Info(), msg, fields)
}

func (l zerologSink) Warn(msg string, fields ...notiflogger.Field) {
	l.log(l.base.Warn(), msg, fields)
}

func (l zerologSink) Error(msg string, fields ...notiflogger.Field) {
	l.log(l.base.Error(), msg, fields)
}

func (l zerologSink) log(evt *zerolog.Event, msg string, fields []notiflogger.Field) {
	for _, field := range fields {
		evt = evt.Interface(field.Key, field.Value)
	}
	evt.Msg(msg)
}
