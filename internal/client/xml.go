package client

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/groblegark/depgraph/internal/model"
)

// xmlFeed mirrors the RSS-shaped document the tracker serves for a single
// issue. Only the fields the graph builder needs are mapped; everything else
// in the view is ignored.
type xmlFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Item *xmlItem `xml:"item"`
	} `xml:"channel"`
}

type xmlItem struct {
	Key        string        `xml:"key"`
	Summary    string        `xml:"summary"`
	Type       string        `xml:"type"`
	Link       string        `xml:"link"`
	Status     string        `xml:"status"`
	Priority   string        `xml:"priority"`
	Assignee   string        `xml:"assignee"`
	Subtasks   []string      `xml:"subtasks>subtask"`
	IssueLinks []xmlLinkType `xml:"issuelinks>issuelinktype"`
}

// xmlLinkType is one named group of links. Only the outward direction is
// kept; inward links would describe the same edges a second time from the
// other end.
type xmlLinkType struct {
	Name    string   `xml:"name"`
	Outward []string `xml:"outwardlinks>issuelink>issuekey"`
}

// decodeIssue parses a single-issue XML view into the domain record.
func decodeIssue(data []byte) (*model.Issue, error) {
	var feed xmlFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("decoding issue view: %w", err)
	}
	if feed.Channel.Item == nil {
		return nil, errors.New("issue view contains no item")
	}
	return feed.Channel.Item.toIssue(), nil
}

// toIssue converts the wire form into the domain record. The views are
// pretty-printed, so every text field is trimmed.
func (it *xmlItem) toIssue() *model.Issue {
	issue := &model.Issue{
		Key:      strings.TrimSpace(it.Key),
		Summary:  strings.TrimSpace(it.Summary),
		Status:   model.Status(strings.TrimSpace(it.Status)),
		Priority: strings.TrimSpace(it.Priority),
		Assignee: strings.TrimSpace(it.Assignee),
		Type:     strings.TrimSpace(it.Type),
		Link:     strings.TrimSpace(it.Link),
	}
	for _, sub := range it.Subtasks {
		if k := strings.TrimSpace(sub); k != "" {
			issue.Subtasks = append(issue.Subtasks, k)
		}
	}
	for _, lt := range it.IssueLinks {
		for _, out := range lt.Outward {
			if k := strings.TrimSpace(out); k != "" {
				issue.OutwardLinks = append(issue.OutwardLinks, k)
			}
		}
	}
	return issue
}
