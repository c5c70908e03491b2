package messenger

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbcli/internal/types"
)

var captured = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

const inboxFixture = `<html><body>
<div role="navigation"><a href="/messages/">Chats</a></div>
<div role="grid">
<a href="/messages/t/1001/" role="link">Alice Martin · Vélo de course · Toujours dispo ? · 2 h</a>
<a href="/messages/t/1002/" role="link" aria-label="Unread conversation"><span style="font-weight: 700">Bob</span> · Canapé · 1 j</a>
<a href="/messages/t/1003/" role="link">Chloé · 3 sem</a>
<a href="/messages/t/abc/" role="link">Weird row · x · y</a>
<a href="/messages/t/1004/" role="link">Sans séparateur</a>
</div>
</body></html>`

const threadFixture = `<html><body><div role="main">
<div role="gridcell" style="display: flex; justify-content: flex-end"><div dir="auto">Bonjour, toujours disponible ?</div></div>
<div role="gridcell"><div dir="auto">Oui !</div></div>
<div role="gridcell"><div dir="auto">k</div></div>
<div data-testid="outgoing_sent_row"><div dir="auto">Je passe demain</div></div>
<div role="gridcell"><div dir="auto" style="background-color: rgb(0, 132, 255)">Parfait</div></div>
</div></body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRowText(t *testing.T) {
	tests := []struct {
		in                      string
		name, preview, relative string
	}{
		{"Alice · Vélo · Dispo ? · 2 h", "Alice", "Vélo · Dispo ?", "2 h"},
		{"Bob · Canapé · 1 j", "Bob", "Canapé", "1 j"},
		{"Chloé · 3 sem", "Chloé", "", "3 sem"},
		{" · hello · now", "Unknown", "hello", "now"},
		{"No separator", "Unknown", "", ""},
		{"", "Unknown", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, preview, relative := rowText(tt.in)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.preview, preview)
			assert.Equal(t, tt.relative, relative)
		})
	}
}

func TestParseConversations(t *testing.T) {
	got := ParseConversations(mustDoc(t, inboxFixture), 20, captured)
	require.Len(t, got, 4)

	assert.Equal(t, types.Conversation{
		ID:           "1001",
		Participants: []types.Participant{{ID: "", Name: "Alice Martin"}},
		LastMessage: &types.LastMessage{
			Text:         "Vélo de course · Toujours dispo ?",
			Timestamp:    captured,
			RelativeTime: "2 h",
		},
	}, got[0])

	assert.Equal(t, "1002", got[1].ID)
	assert.Equal(t, "Bob", got[1].Participants[0].Name)
	assert.Equal(t, 1, got[1].UnreadCount)

	assert.Equal(t, "1003", got[2].ID)
	assert.Nil(t, got[2].LastMessage)

	assert.Equal(t, "1004", got[3].ID)
	assert.Equal(t, "Unknown", got[3].Participants[0].Name)
}

func TestParseConversations_LimitAppliesBeforeFiltering(t *testing.T) {
	assert.Len(t, ParseConversations(mustDoc(t, inboxFixture), 2, captured), 2)
	assert.Len(t, ParseConversations(mustDoc(t, inboxFixture), 4, captured), 3)
}

func TestParseConversations_FallbackSelector(t *testing.T) {
	got := ParseConversations(mustDoc(t, `<div role="grid"><a href="/messages/t/55/">Dan · salut · 5 min</a></div>`), 20, captured)
	require.Len(t, got, 1)
	assert.Equal(t, "55", got[0].ID)
	assert.Equal(t, "salut", got[0].LastMessage.Text)
}

func TestParseConversations_None(t *testing.T) {
	got := ParseConversations(mustDoc(t, `<div role="main"></div>`), 20, captured)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseMessages(t *testing.T) {
	got := ParseMessages(mustDoc(t, threadFixture), "1001", 50, captured)

	want := []struct {
		id, sender, name, text string
	}{
		{"msg_0", types.SenderMe, "Me", "Bonjour, toujours disponible ?"},
		{"msg_1", types.SenderThem, "Other", "Oui !"},
		{"msg_3", types.SenderMe, "Me", "Je passe demain"},
		{"msg_4", types.SenderMe, "Me", "Parfait"},
	}
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.id, got[i].ID)
		assert.Equal(t, w.sender, got[i].SenderID)
		assert.Equal(t, w.name, got[i].SenderName)
		assert.Equal(t, w.text, got[i].Text)
		assert.Equal(t, "1001", got[i].ConversationID)
		assert.Equal(t, captured, got[i].Timestamp)
	}
}

func TestParseMessages_KeepsLastN(t *testing.T) {
	got := ParseMessages(mustDoc(t, threadFixture), "1001", 2, captured)
	require.Len(t, got, 2)
	assert.Equal(t, "msg_0", got[0].ID)
	assert.Equal(t, "Je passe demain", got[0].Text)
	assert.Equal(t, "Parfait", got[1].Text)
}

func TestParseMessages_PreferredSelector(t *testing.T) {
	html := `<div role="main">
		<div dir="auto">Header text</div>
		<div data-testid="message_container">Salut</div>
	</div>`
	got := ParseMessages(mustDoc(t, html), "9", 50, captured)
	require.Len(t, got, 1)
	assert.Equal(t, "Salut", got[0].Text)
}

func TestParseMessages_None(t *testing.T) {
	got := ParseMessages(mustDoc(t, `<p>nothing</p>`), "9", 50, captured)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
