package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hfgwas/api/utils"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
)

// VariantStore keeps the significant-variant set in a single index.
type VariantStore struct {
	Client *es7.Client
	Index  string
	Debug  bool
}

func NewVariantStore(client *es7.Client, index string, debug bool) *VariantStore {
	return &VariantStore{
		Client: client,
		Index:  index,
		Debug:  debug,
	}
}

// search runs a query body against the store's index and decodes the
// response. A missing index yields a nil result and no error.
func (s *VariantStore) search(ctx context.Context, query map[string]interface{}) (map[string]interface{}, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, errors.Wrap(err, "encoding query")
	}

	if s.Debug {
		// view the outbound elasticsearch query
		fmt.Println(buf.String())
	}

	fmt.Printf("Query Start: %s\n", time.Now())

	res, searchErr := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(s.Index),
		s.Client.Search.WithBody(&buf),
		s.Client.Search.WithTrackTotalHits(true),
	)
	if searchErr != nil {
		return nil, errors.Wrap(searchErr, "searching variants")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.IsError() {
		return nil, responseError(res, "searching variants")
	}

	result := make(map[string]interface{})
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decoding search response")
	}

	fmt.Printf("Query End: %s\n", time.Now())

	return result, nil
}

func responseError(res *esapi.Response, action string) error {
	body, _ := io.ReadAll(res.Body)
	reason := utils.ElasticsearchErrorReason(body)
	if reason == "" {
		reason = strings.TrimSpace(string(body))
	}
	return fmt.Errorf("%s : got '%s' %s", action, res.Status(), reason)
}
