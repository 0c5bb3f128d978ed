package markupcmd

import (
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

const (
	parseMessageType = "feecting.markup.parse"
	fetchMessageType = "feecting.markup.fetch"

	maxIDLength = 128
)

// ParseCommand converts markup text and resolves its talk directives.
type ParseCommand struct {
	// ID names the job. An empty ID gets a generated one.
	ID        string           `json:"id,omitempty"`
	Text      string           `json:"text"`
	Params    []string         `json:"params,omitempty"`
	Vars      map[string]any   `json:"vars,omitempty"`
	Caller    interfaces.Party `json:"caller"`
	Responder interfaces.Party `json:"responder"`
}

// Type implements command.Message.
func (ParseCommand) Type() string { return parseMessageType }

// Validate bounds the id size and rejects blank params. Text size is
// enforced by the parser.
func (cmd ParseCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ID, validation.Length(0, maxIDLength), validation.By(noWhitespace)),
		validation.Field(&cmd.Params, validation.Each(validation.Required)),
	)
}

// Input converts the command into a parser input.
func (cmd ParseCommand) Input() interfaces.Input {
	return interfaces.Input{
		ID:        cmd.ID,
		Meta:      interfaces.Meta{Params: cmd.Params},
		Text:      cmd.Text,
		Caller:    cmd.Caller,
		Responder: cmd.Responder,
		Data:      interfaces.Data{Vars: cmd.Vars},
	}
}

// FetchCommand retrieves markup from URL, then parses and resolves it like
// ParseCommand.
type FetchCommand struct {
	URL       string           `json:"url"`
	ID        string           `json:"id,omitempty"`
	Params    []string         `json:"params,omitempty"`
	Vars      map[string]any   `json:"vars,omitempty"`
	Caller    interfaces.Party `json:"caller"`
	Responder interfaces.Party `json:"responder"`
}

// Type implements command.Message.
func (FetchCommand) Type() string { return fetchMessageType }

// Validate requires an absolute http(s) URL.
func (cmd FetchCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.URL, validation.Required, is.URL, validation.By(httpScheme)),
		validation.Field(&cmd.ID, validation.Length(0, maxIDLength), validation.By(noWhitespace)),
		validation.Field(&cmd.Params, validation.Each(validation.Required)),
	)
}

// Input converts the command into a parser input with the fetched text.
func (cmd FetchCommand) Input(text string) interfaces.Input {
	return interfaces.Input{
		ID:        cmd.ID,
		Meta:      interfaces.Meta{Params: cmd.Params, URL: cmd.URL},
		Text:      text,
		Caller:    cmd.Caller,
		Responder: cmd.Responder,
		Data:      interfaces.Data{Vars: cmd.Vars},
	}
}

func noWhitespace(value any) error {
	id, _ := value.(string)
	if strings.ContainsAny(id, " \t\r\n") {
		return validation.NewError("feecting.markup.id_whitespace", "id must not contain whitespace")
	}
	return nil
}

func httpScheme(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return validation.NewError("feecting.markup.url_invalid", "url is invalid")
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return nil
	default:
		return validation.NewError("feecting.markup.url_scheme", "url must use http or https")
	}
}
