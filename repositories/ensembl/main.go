package ensembl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hfgwas/api/models"
	"hfgwas/api/models/constants/chromosome"
	pe "hfgwas/api/models/pipeline-errors"
	"hfgwas/api/models/indexes"

	"github.com/Jeffail/gabs"
	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

const serviceName = "Ensembl REST"

const stableGeneIdPrefix = "ENSG"

const defaultTimeout = 15 * time.Second

type (
	// Client talks to the Ensembl REST API. It answers both
	// "which gene is at this coordinate" and "where is this gene".
	Client struct {
		BaseUrl              string
		Species              string
		MaxRetries           int
		RetryInitialInterval time.Duration
		HttpClient           *http.Client
	}
)

func NewClient(cfg *models.Config) *Client {
	timeout := time.Duration(cfg.Ensembl.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	species := cfg.Ensembl.Species
	if species == "" {
		species = "human"
	}

	return &Client{
		BaseUrl:              strings.TrimRight(cfg.Ensembl.Url, "/"),
		Species:              species,
		MaxRetries:           cfg.Ensembl.MaxRetries,
		RetryInitialInterval: 500 * time.Millisecond,
		HttpClient:           &http.Client{Timeout: timeout},
	}
}

// LocationToGene returns the first gene overlapping chromosome:position.
// found is false when Ensembl knows of no gene there; err is only set when
// the service itself could not be used.
func (c *Client) LocationToGene(ctx context.Context, chrom string, position int) (hit indexes.GeneHit, found bool, err error) {
	region := fmt.Sprintf("%s:%d-%d", chromosome.Normalize(chrom), position, position)
	requestUrl := fmt.Sprintf("%s/overlap/region/%s/%s?feature=gene;content-type=application/json",
		c.BaseUrl, url.PathEscape(c.Species), region)

	parsed, err := c.getJson(ctx, requestUrl)
	if err != nil || parsed == nil {
		return hit, false, err
	}

	genes, childrenErr := parsed.Children()
	if childrenErr != nil || len(genes) == 0 {
		return hit, false, nil
	}

	first := genes[0]
	geneId, _ := first.Path("gene_id").Data().(string)
	if geneId == "" {
		geneId, _ = first.Path("id").Data().(string)
	}
	geneName, _ := first.Path("external_name").Data().(string)

	return indexes.GeneHit{GeneId: geneId, GeneName: geneName}, true, nil
}

// LocateGene resolves a stable gene id (ENSG...) or a gene symbol to its
// chromosome and start position.
func (c *Client) LocateGene(ctx context.Context, gene string) (indexes.GeneLocation, error) {
	term := strings.TrimSpace(gene)
	location := indexes.GeneLocation{Query: term}
	if term == "" {
		return location, &pe.GeneNotFoundError{Gene: gene}
	}

	var requestUrl string
	if strings.HasPrefix(strings.ToUpper(term), stableGeneIdPrefix) {
		requestUrl = fmt.Sprintf("%s/lookup/id/%s?content-type=application/json",
			c.BaseUrl, url.PathEscape(term))
	} else {
		requestUrl = fmt.Sprintf("%s/lookup/symbol/%s/%s?content-type=application/json",
			c.BaseUrl, url.PathEscape(c.Species), url.PathEscape(term))
	}

	parsed, err := c.getJson(ctx, requestUrl)
	if err != nil {
		return location, err
	}
	if parsed == nil || !parsed.Exists("seq_region_name") || !parsed.Exists("start") {
		return location, &pe.GeneNotFoundError{Gene: term}
	}

	seqRegion := fmt.Sprint(parsed.Path("seq_region_name").Data())
	start, ok := parsed.Path("start").Data().(float64)
	if !ok || seqRegion == "" {
		return location, &pe.GeneNotFoundError{Gene: term}
	}

	location.Chromosome = chromosome.Normalize(seqRegion)
	location.Start = int(start)
	location.GeneId, _ = parsed.Path("id").Data().(string)

	return location, nil
}

// getJson performs a GET with retries on transport errors, 429 and 5xx.
// Any other non-success status is treated as "nothing found" (nil, nil).
func (c *Client) getJson(ctx context.Context, requestUrl string) (*gabs.Container, error) {
	var (
		body       []byte
		statusCode int
	)

	operation := func() error {
		statusCode = 0

		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
		if reqErr != nil {
			return backoff.Permanent(reqErr)
		}
		req.Header.Set("Accept", "application/json")

		res, resErr := c.HttpClient.Do(req)
		if resErr != nil {
			return resErr
		}
		defer res.Body.Close()

		statusCode = res.StatusCode
		if statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError {
			return fmt.Errorf("status %d", statusCode)
		}

		body, resErr = io.ReadAll(res.Body)
		return resErr
	}

	if err := backoff.Retry(operation, backoff.WithContext(c.retryPolicy(), ctx)); err != nil {
		logrus.WithFields(logrus.Fields{
			"url":        requestUrl,
			"statusCode": statusCode,
		}).Warnf("%s request failed: %v", serviceName, err)

		serviceErr := &pe.ExternalServiceError{Service: serviceName, Url: requestUrl, StatusCode: statusCode}
		if statusCode == 0 {
			serviceErr.Err = err
		}
		return nil, serviceErr
	}

	if statusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{
			"url":        requestUrl,
			"statusCode": statusCode,
		}).Debugf("%s has no result", serviceName)
		return nil, nil
	}

	parsed, parseErr := gabs.ParseJSON(body)
	if parseErr != nil {
		return nil, &pe.ExternalServiceError{Service: serviceName, Url: requestUrl, StatusCode: statusCode, Err: parseErr}
	}
	return parsed, nil
}

// retryPolicy bounds retries by count and by elapsed time.
// WithMaxRetries treats zero as "retry forever", so zero retries is a StopBackOff.
func (c *Client) retryPolicy() backoff.BackOff {
	if c.MaxRetries <= 0 {
		return &backoff.StopBackOff{}
	}

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = c.RetryInitialInterval
	retryBackoff.MaxElapsedTime = defaultTimeout * time.Duration(c.MaxRetries+1)
	if c.HttpClient != nil && c.HttpClient.Timeout > 0 {
		retryBackoff.MaxElapsedTime = c.HttpClient.Timeout * time.Duration(c.MaxRetries+1)
	}

	return backoff.WithMaxRetries(retryBackoff, uint64(c.MaxRetries))
}
