package vinted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	domain "github.com/vinted-tools/vinted-notifier/pkg/types"
)

// listKeys are the conventional wrappers under which actor runs return
// their dataset when the response is not a bare array.
var listKeys = []string{"items", "catalog_items", "data", "result", "results"}

// actorClient is the optional structured tier: a synchronous actor run that
// scrapes the profile and returns loosely-typed item records. Every failure
// here is non-fatal; the caller falls through to the feed.
type actorClient struct {
	baseURL    string
	actorID    string
	token      string
	httpClient *http.Client
	pacer      *Pacer
	log        *slog.Logger
}

type actorInput struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit"`
	Domain string `json:"domain,omitempty"`
}

func (a *actorClient) fetch(
	ctx context.Context,
	profileID string,
	limit int,
	domainHint string,
) ([]domain.Item, error) {
	if err := a.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(actorInput{UserID: profileID, Limit: limit, Domain: domainHint})
	if err != nil {
		return nil, fmt.Errorf("marshaling actor input: %w", err)
	}

	runURL := fmt.Sprintf(
		"%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		a.baseURL, url.PathEscape(a.actorID), url.QueryEscape(a.token),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, runURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating actor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("running actor: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading actor response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("actor returned %d", resp.StatusCode)
	}

	records, err := decodeRecordList(respBody)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(records))
	for _, rec := range records {
		item, ok := NormalizeRecord(rec)
		if !ok {
			a.log.Debug("actor record had no usable identifier, skipped")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// decodeRecordList accepts either a bare JSON array of records or an object
// exposing the array under one of the conventional list keys.
func decodeRecordList(body []byte) ([]map[string]any, error) {
	var bare []map[string]any
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var wrapped map[string]any
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing actor response: %w", err)
	}

	for _, key := range listKeys {
		list, ok := wrapped[key].([]any)
		if !ok {
			continue
		}
		records := make([]map[string]any, 0, len(list))
		for _, entry := range list {
			if rec, rok := entry.(map[string]any); rok {
				records = append(records, rec)
			}
		}
		return records, nil
	}

	return nil, fmt.Errorf("actor response has no item list")
}
