// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eutils

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/geo-cluster/pkg/types"
)

// summaryBatchSize caps the number of UIDs sent in one esummary request.
var summaryBatchSize = 200

// Summaries returns one record per gds UID, in uids order. UIDs for which
// NCBI returns no document summary are skipped.
func (c *Client) Summaries(ctx context.Context, uids []string) ([]types.DatasetRecord, error) {
	byUID := make(map[string]types.DatasetRecord, len(uids))
	var missing []string
	for _, uid := range uids {
		if raw, ok := c.cacheGet(ctx, "esummary:"+uid); ok {
			var r types.DatasetRecord
			if err := json.Unmarshal(raw, &r); err == nil {
				byUID[uid] = r
				continue
			}
		}
		missing = append(missing, uid)
	}

	for start := 0; start < len(missing); start += summaryBatchSize {
		end := min(start+summaryBatchSize, len(missing))
		batch := missing[start:end]

		body, err := c.get(ctx, "esummary.fcgi", url.Values{
			"db": {"gds"},
			"id": {strings.Join(batch, ",")},
		})
		if err != nil {
			return nil, fmt.Errorf("summarizing %d datasets: %w", len(batch), err)
		}
		records, err := parseESummary(body)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			byUID[r.UID] = r
			if raw, err := json.Marshal(r); err == nil {
				c.cachePut(ctx, "esummary:"+r.UID, raw)
			}
		}
	}

	out := make([]types.DatasetRecord, 0, len(uids))
	for _, uid := range uids {
		r, ok := byUID[uid]
		if !ok {
			c.log.WithField("uid", uid).Warn("no summary returned for GEO dataset")
			continue
		}
		out = append(out, r)
	}
	c.log.WithFields(log.Fields{"uids": len(uids), "fetched": len(missing)}).Debug("esummary complete")
	return out, nil
}

func parseESummary(body []byte) ([]types.DatasetRecord, error) {
	var res eSummaryResult
	if err := xml.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing esummary response: %w", err)
	}
	if msg := strings.TrimSpace(res.Error); msg != "" && len(res.DocSums) == 0 {
		return nil, fmt.Errorf("esummary error: %s", msg)
	}

	records := make([]types.DatasetRecord, 0, len(res.DocSums))
	for _, doc := range res.DocSums {
		records = append(records, doc.record())
	}
	return records, nil
}

// E-utilities esummary XML structures. Items nest for List and Structure types.
type eSummaryResult struct {
	XMLName xml.Name  `xml:"eSummaryResult"`
	DocSums []eDocSum `xml:"DocSum"`
	Error   string    `xml:"ERROR"`
}

type eDocSum struct {
	ID    string  `xml:"Id"`
	Items []eItem `xml:"Item"`
}

type eItem struct {
	Name  string  `xml:"Name,attr"`
	Type  string  `xml:"Type,attr"`
	Value string  `xml:",chardata"`
	Items []eItem `xml:"Item"`
}

func (d eDocSum) record() types.DatasetRecord {
	uid := strings.TrimSpace(d.ID)
	r := types.DatasetRecord{UID: uid}
	var accession string

	for _, it := range d.Items {
		v := strings.TrimSpace(it.Value)
		switch it.Name {
		case "Accession":
			accession = v
		case "title":
			r.Title = v
		case "summary":
			r.Summary = v
		case "gdsType":
			r.ExperimentType = v
		case "taxon":
			r.Organism = v
		case "gdsSubset":
			if design := overallDesign(it); design != "" {
				r.OverallDesign = design
			}
		}
	}

	r.ID = accession
	if r.ID == "" {
		r.ID = uid
	}
	return r
}

// overallDesign returns the last subset description that mentions the
// experimental design.
func overallDesign(subset eItem) string {
	var design string
	var walk func(it eItem)
	walk = func(it eItem) {
		for _, child := range it.Items {
			if child.Name == "description" {
				v := strings.TrimSpace(child.Value)
				if strings.Contains(strings.ToLower(v), "design") {
					design = v
				}
			}
			walk(child)
		}
	}
	walk(subset)
	return design
}
