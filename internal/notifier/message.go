package notifier

import (
	"fmt"
	"strings"
	"text/template"

	"news_watchdog/internal/domain"
)

// DefaultMessageTemplate renders "<name> (<db>, <server>) has no news for the last day".
const DefaultMessageTemplate = "На сайте {{.Name}} ({{.DB}}, {{.Server}}) нет новостей за последний день."

// MessageFormat renders the alert text for a stale target.
type MessageFormat struct {
	tmpl *template.Template
}

func NewMessageFormat(text string) (*MessageFormat, error) {
	if text == "" {
		text = DefaultMessageTemplate
	}

	tmpl, err := template.New("message").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse message template: %w", err)
	}

	// Fail at startup rather than on the first stale database.
	if err := tmpl.Execute(&strings.Builder{}, domain.Target{}); err != nil {
		return nil, fmt.Errorf("execute message template: %w", err)
	}

	return &MessageFormat{tmpl: tmpl}, nil
}

func (f *MessageFormat) Format(target domain.Target) string {
	var sb strings.Builder
	if err := f.tmpl.Execute(&sb, target); err != nil {
		return fmt.Sprintf("%s (%s, %s): no news for the last day", target.Name, target.DB, target.Server)
	}
	return sb.String()
}
