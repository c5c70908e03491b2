package render

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"fbcli/internal/extract"
	"fbcli/internal/types"
)

const tableTextWidth = 60

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	return t
}

// TableListings renders listings as a table.
func TableListings(w io.Writer, listings []types.Listing) error {
	t := newTable(w, table.Row{"#", "ID", "Title", "Price", "Location", "URL"})
	for i, l := range listings {
		t.AppendRow(table.Row{
			i + 1,
			l.ID,
			extract.Truncate(l.TitleOr(untitledListing), tableTextWidth, ellipsis),
			strconv.Itoa(l.Price) + " " + l.Currency,
			l.Location,
			l.URL,
		})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(listings)})
	t.Render()
	return nil
}

// TableConversations renders inbox threads as a table.
func TableConversations(w io.Writer, conversations []types.Conversation) error {
	t := newTable(w, table.Row{"#", "ID", "Participants", "Last Message", "When", "Unread"})
	for i, c := range conversations {
		preview, when := "", ""
		if c.LastMessage != nil {
			preview = extract.Truncate(c.LastMessage.Text, tableTextWidth, ellipsis)
			when = c.LastMessage.RelativeTime
		}
		t.AppendRow(table.Row{i + 1, c.ID, participantNames(c), preview, when, c.UnreadCount})
	}
	t.Render()
	return nil
}

// TableMessages renders a transcript as a table.
func TableMessages(w io.Writer, messages []types.Message) error {
	t := newTable(w, table.Row{"ID", "From", "Text"})
	for _, m := range messages {
		t.AppendRow(table.Row{m.ID, m.SenderName, extract.Truncate(m.Text, tableTextWidth*2, ellipsis)})
	}
	t.Render()
	return nil
}
