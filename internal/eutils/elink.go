// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eutils

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
)

const pubmedGDS = "pubmed_gds"

// LinkIDs returns the gds UIDs linked to a PubMed identifier, in the order
// NCBI lists them, without duplicates.
func (c *Client) LinkIDs(ctx context.Context, pmid string) ([]string, error) {
	key := "elink:" + pmid
	if raw, ok := c.cacheGet(ctx, key); ok {
		var uids []string
		if err := json.Unmarshal(raw, &uids); err == nil {
			c.log.WithField("pmid", pmid).Debug("using cached elink result")
			return uids, nil
		}
	}

	params := url.Values{
		"dbfrom":   {"pubmed"},
		"db":       {"gds"},
		"linkname": {pubmedGDS},
		"id":       {pmid},
	}
	body, err := c.get(ctx, "elink.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("linking PMID %s: %w", pmid, err)
	}

	uids, err := parseELink(body)
	if err != nil {
		return nil, fmt.Errorf("linking PMID %s: %w", pmid, err)
	}

	if raw, err := json.Marshal(uids); err == nil {
		c.cachePut(ctx, key, raw)
	}
	return uids, nil
}

func parseELink(body []byte) ([]string, error) {
	var res eLinkResult
	if err := xml.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing elink response: %w", err)
	}
	if msg := strings.TrimSpace(res.Error); msg != "" {
		return nil, fmt.Errorf("elink error: %s", msg)
	}

	uids := []string{}
	seen := make(map[string]bool)
	for _, set := range res.LinkSets {
		if msg := strings.TrimSpace(set.Error); msg != "" && len(set.LinkSetDbs) == 0 {
			return nil, fmt.Errorf("elink error: %s", msg)
		}
		for _, db := range set.LinkSetDbs {
			if db.LinkName != pubmedGDS {
				continue
			}
			for _, l := range db.Links {
				id := strings.TrimSpace(l.ID)
				if id == "" || seen[id] {
					continue
				}
				seen[id] = true
				uids = append(uids, id)
			}
		}
	}
	return uids, nil
}

// E-utilities elink XML structures.
type eLinkResult struct {
	XMLName  xml.Name   `xml:"eLinkResult"`
	LinkSets []eLinkSet `xml:"LinkSet"`
	Error    string     `xml:"ERROR"`
}

type eLinkSet struct {
	DbFrom     string       `xml:"DbFrom"`
	LinkSetDbs []eLinkSetDb `xml:"LinkSetDb"`
	Error      string       `xml:"ERROR"`
}

type eLinkSetDb struct {
	DbTo     string  `xml:"DbTo"`
	LinkName string  `xml:"LinkName"`
	Links    []eLink `xml:"Link"`
}

type eLink struct {
	ID string `xml:"Id"`
}
