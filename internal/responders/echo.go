package responders

import (
	"context"
	"html"
	"strings"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// Echo answers every question with the question itself. The HTML side is
// escaped.
type Echo struct {
	Prefix string
}

var _ interfaces.Responder = Echo{}

func (e Echo) Question(ctx context.Context, text string) (interfaces.Answer, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.Answer{}, err
	}
	answer := strings.TrimSpace(e.Prefix + text)
	return interfaces.Answer{
		Text: answer,
		HTML: html.EscapeString(answer),
	}, nil
}

// Func adapts fn into a Responder.
func Func(fn func(ctx context.Context, text string) (interfaces.Answer, error)) interfaces.Responder {
	return interfaces.ResponderFunc(fn)
}
