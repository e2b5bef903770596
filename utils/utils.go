package utils

import (
	"strings"

	"github.com/Jeffail/gabs"
)

// ElasticsearchErrorReason condenses an Elasticsearch error body such as
// {"error":{"type":"parsing_exception","reason":"unknown query"}} into
// "parsing_exception: unknown query". Bodies that carry no error yield "".
func ElasticsearchErrorReason(body []byte) string {
	parsed, err := gabs.ParseJSON(body)
	if err != nil || !parsed.Exists("error") {
		return ""
	}

	// older clusters and proxies answer with a plain string
	if text, ok := parsed.Path("error").Data().(string); ok {
		return strings.TrimSpace(text)
	}

	errorType, _ := parsed.Path("error.type").Data().(string)
	reason, _ := parsed.Path("error.reason").Data().(string)
	switch {
	case errorType != "" && reason != "":
		return errorType + ": " + reason
	case errorType != "":
		return errorType
	default:
		return reason
	}
}
