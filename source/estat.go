package source

import (
	"net/http"
	"strings"

	"github.com/gosdmx/sdmx/logger"
	"github.com/gosdmx/sdmx/message"
)

// Eurostat answers large queries asynchronously: the immediate response
// is an empty message whose footer carries a code and the URL of a zip
// file prepared in the background. The hook surfaces this as a
// DelayedResponseError so the caller can retry against the given URL.
func estatFinishMessage(_ *Source, msg message.Message, _ *http.Request) (message.Message, error) {
	footer := msg.MessageFooter()
	if footer == nil {
		return msg, nil
	}
	for _, text := range footer.Texts {
		if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
			logger.Info("ESTAT delayed response, content at %s", text)
			return msg, &DelayedResponseError{Code: footer.Code, URL: text}
		}
	}
	return msg, nil
}
