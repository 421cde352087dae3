package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docport/internal/model"
)

var now = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func doc(id string, status model.Status, expiresIn time.Duration, comment string) model.Document {
	exp := now.Add(expiresIn)
	d := model.Document{
		ID:          id,
		SenderID:    "org-a",
		RecipientID: "org-b",
		Status:      status,
		ExpiresAt:   &exp,
		StorageKey:  "documents/" + id + ".pdf",
	}
	if comment != "" {
		d.Comment = &comment
	}
	return d
}

func ids(docs []model.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

var names = NewNames([]model.Organization{
	{ID: "org-a", Name: "General Hospital"},
	{ID: "org-b", Name: "City Clinic"},
})

func fixture() []model.Document {
	return []model.Document{
		doc("live-unread", model.StatusUploaded, time.Hour, "Blood panel"),
		doc("live-read", model.StatusDownloaded, time.Hour, ""),
		doc("expired-unread", model.StatusUploaded, -time.Hour, "old scan"),
		doc("cancelled", model.StatusCancelled, time.Hour, ""),
		doc("archived", model.StatusArchived, time.Hour, "blood"),
	}
}

func TestInbox(t *testing.T) {
	tests := []struct {
		name string
		opts InboxOptions
		want []string
	}{
		{name: "default hides archived and expired", opts: InboxOptions{}, want: []string{"live-unread", "live-read", "cancelled"}},
		{name: "show expired", opts: InboxOptions{ShowExpired: true}, want: []string{"live-unread", "live-read", "expired-unread", "cancelled"}},
		{name: "unread only", opts: InboxOptions{UnreadOnly: true}, want: []string{"live-unread"}},
		{name: "unread with expired", opts: InboxOptions{UnreadOnly: true, ShowExpired: true}, want: []string{"live-unread", "expired-unread"}},
		{name: "query on comment", opts: InboxOptions{Query: "  BLOOD "}, want: []string{"live-unread"}},
		{name: "query on sender name", opts: InboxOptions{Query: "general"}, want: []string{"live-unread", "live-read", "cancelled"}},
		{name: "query without match", opts: InboxOptions{Query: "radiology"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Inbox(fixture(), names, tt.opts, now)))
		})
	}
}

func TestSent(t *testing.T) {
	assert.Equal(t,
		[]string{"live-unread", "live-read", "expired-unread", "cancelled", "archived"},
		ids(Sent(fixture(), names, "")))
	assert.Equal(t, []string{"live-unread", "archived"}, ids(Sent(fixture(), names, "blood")))
	assert.Equal(t, []string{"expired-unread"}, ids(Sent(fixture(), names, "SCAN")))
}

func TestUnreadCount(t *testing.T) {
	assert.Equal(t, 1, UnreadCount(fixture(), now))
	assert.Equal(t, 0, UnreadCount(nil, now))

	noExpiry := doc("forever", model.StatusUploaded, 0, "")
	noExpiry.ExpiresAt = nil
	assert.Equal(t, 1, UnreadCount([]model.Document{noExpiry}, now))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "City Clinic", names.Name("org-b"))
	assert.Equal(t, "org-z", names.Name("org-z"))
}

func TestView(t *testing.T) {
	legacy := doc("l", model.StatusUploaded, -time.Minute, "")
	legacy.StorageKey = "tmp/l.pdf"
	legacy.SenderID = "org-z"

	v := View(legacy, names, now)

	assert.Equal(t, "org-z", v.SenderName)
	assert.Equal(t, "City Clinic", v.RecipientName)
	assert.True(t, v.Expired)
	assert.True(t, v.Unread)
	assert.True(t, v.LegacyKey)

	views := Views(fixture(), names, now)
	require.Len(t, views, 5)
	assert.False(t, views[0].LegacyKey)
	assert.False(t, views[1].Unread)
}
