// Package visibility decides which documents appear in an organization's
// inbox and sent lists and how many count as unread. It is pure: callers pass
// the documents, the organization names and the current time.
package visibility

import (
	"strings"
	"time"

	"docport/internal/model"
	"docport/internal/policy"
)

// Names maps organization ids to display names.
type Names map[string]string

// NewNames indexes orgs by id.
func NewNames(orgs []model.Organization) Names {
	n := make(Names, len(orgs))
	for _, o := range orgs {
		n[o.ID] = o.Name
	}
	return n
}

// Name returns the display name of id, or id itself when it is unknown.
func (n Names) Name(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return id
}

// InboxOptions filter the recipient view.
type InboxOptions struct {
	Query       string
	UnreadOnly  bool
	ShowExpired bool
}

// Inbox returns the documents a recipient should see, preserving input order.
// Archived documents are always hidden; expired ones unless ShowExpired is set.
func Inbox(docs []model.Document, names Names, opts InboxOptions, now time.Time) []model.Document {
	q := normalize(opts.Query)
	out := make([]model.Document, 0, len(docs))
	for i := range docs {
		d := &docs[i]
		if d.Status == model.StatusArchived {
			continue
		}
		if !opts.ShowExpired && policy.Expired(d, now) {
			continue
		}
		if opts.UnreadOnly && d.Status != model.StatusUploaded {
			continue
		}
		if !matches(d, names, q) {
			continue
		}
		out = append(out, *d)
	}
	return out
}

// Sent returns the documents a sender should see. No status or expiry is
// excluded.
func Sent(docs []model.Document, names Names, query string) []model.Document {
	q := normalize(query)
	out := make([]model.Document, 0, len(docs))
	for i := range docs {
		if matches(&docs[i], names, q) {
			out = append(out, docs[i])
		}
	}
	return out
}

// UnreadCount counts live, not yet downloaded documents.
func UnreadCount(docs []model.Document, now time.Time) int {
	n := 0
	for i := range docs {
		if docs[i].Status == model.StatusUploaded && !policy.Expired(&docs[i], now) {
			n++
		}
	}
	return n
}

// DocumentView is a document decorated for list rendering.
type DocumentView struct {
	model.Document
	SenderName    string `json:"sender_name"`
	RecipientName string `json:"recipient_name"`
	Expired       bool   `json:"expired"`
	Unread        bool   `json:"unread"`
	LegacyKey     bool   `json:"legacy_key"`
}

// View decorates doc with participant names and derived flags.
func View(doc model.Document, names Names, now time.Time) DocumentView {
	return DocumentView{
		Document:      doc,
		SenderName:    names.Name(doc.SenderID),
		RecipientName: names.Name(doc.RecipientID),
		Expired:       policy.Expired(&doc, now),
		Unread:        doc.Status == model.StatusUploaded,
		LegacyKey:     !policy.ValidKey(doc.StorageKey),
	}
}

// Views decorates every document in docs.
func Views(docs []model.Document, names Names, now time.Time) []DocumentView {
	out := make([]DocumentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, View(d, names, now))
	}
	return out
}

func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// matches reports whether q occurs in the sender name, recipient name or comment.
func matches(d *model.Document, names Names, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range []string{names.Name(d.SenderID), names.Name(d.RecipientID), d.CommentText()} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
