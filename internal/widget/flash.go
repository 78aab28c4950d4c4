package widget

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/v2v-test/integration-tests/internal/browser"
)

// FlashMessage is one notification shown above the page content.
type FlashMessage struct {
	Type string // success, info, warning, error
	Text string
}

// FlashError lists the error messages found by AssertNoError.
type FlashError struct {
	Messages []FlashMessage
}

func (e *FlashError) Error() string {
	texts := make([]string, len(e.Messages))
	for i, m := range e.Messages {
		texts[i] = m.Text
	}
	return fmt.Sprintf("flash error: %s", strings.Join(texts, "; "))
}

// Flash reads the flash message area.
type Flash struct{ base }

// Flash binds the standard flash message container.
func (s Scope) Flash() *Flash {
	return &Flash{s.base(browser.XPath(`//div[@id='flash_msg_div']`))}
}

// Messages returns the displayed messages. No container means no messages.
func (f *Flash) Messages(ctx context.Context) ([]FlashMessage, error) {
	doc, err := snapshot(ctx, f.b, f.loc)
	if err != nil || doc == nil {
		return nil, err
	}
	var out []FlashMessage
	for _, n := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && nodeHasClass(n, "alert")
	}) {
		out = append(out, FlashMessage{Type: alertType(attr(n, "class")), Text: textContent(n)})
	}
	return out, nil
}

// AssertNoError returns a *FlashError when any error message is displayed.
func (f *Flash) AssertNoError(ctx context.Context) error {
	msgs, err := f.Messages(ctx)
	if err != nil {
		return err
	}
	var bad []FlashMessage
	for _, m := range msgs {
		if m.Type == "error" {
			bad = append(bad, m)
		}
	}
	if len(bad) > 0 {
		return &FlashError{Messages: bad}
	}
	return nil
}

func alertType(class string) string {
	switch {
	case hasClass(class, "alert-danger"), hasClass(class, "alert-error"):
		return "error"
	case hasClass(class, "alert-warning"):
		return "warning"
	case hasClass(class, "alert-success"):
		return "success"
	}
	return "info"
}
