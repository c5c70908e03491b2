package render

import (
	"fmt"
	"strings"
	"time"

	"fbcli/internal/extract"
	"fbcli/internal/types"
)

const (
	descriptionPreview = 200
	messagePreview     = 100
	ellipsis           = "..."
	untitledListing    = "Untitled listing"

	dateLayout     = "1/2/2006"
	dateTimeLayout = "1/2/2006, 3:04:05 PM"
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Local().Format(dateLayout)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Local().Format(dateTimeLayout)
}

// MarkdownListings renders listings as numbered sections.
func MarkdownListings(listings []types.Listing) string {
	var b strings.Builder
	b.WriteString("# Facebook Marketplace Search\n\n")
	if len(listings) == 0 {
		b.WriteString("No listings found.\n")
		return b.String()
	}

	for i, l := range listings {
		seller := l.Seller.Name
		if seller == "" {
			seller = "Unknown"
		}
		fmt.Fprintf(&b, "## %d. %s\n", i+1, l.TitleOr(untitledListing))
		fmt.Fprintf(&b, "- **ID:** %s\n", l.ID)
		fmt.Fprintf(&b, "- **Price:** $%d %s\n", l.Price, l.Currency)
		fmt.Fprintf(&b, "- **Location:** %s\n", l.Location)
		fmt.Fprintf(&b, "- **Seller:** %s\n", seller)
		fmt.Fprintf(&b, "- **Posted:** %s\n", formatDate(l.PostedAt))
		fmt.Fprintf(&b, "- **URL:** %s\n", l.URL)
		if l.Description != "" {
			fmt.Fprintf(&b, "- **Description:** %s\n", extract.Truncate(l.Description, descriptionPreview, ellipsis))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// MarkdownMessages renders a transcript in thread order.
func MarkdownMessages(messages []types.Message) string {
	var b strings.Builder
	b.WriteString("# Conversation\n\n")
	if len(messages) == 0 {
		b.WriteString("No messages.\n")
		return b.String()
	}

	for _, m := range messages {
		fmt.Fprintf(&b, "**%s** (%s):\n", m.SenderName, formatDateTime(m.Timestamp))
		fmt.Fprintf(&b, "%s\n\n", m.Text)
	}
	return b.String()
}

// MarkdownConversations renders inbox threads as numbered sections.
func MarkdownConversations(conversations []types.Conversation) string {
	var b strings.Builder
	b.WriteString("# Conversations\n\n")
	if len(conversations) == 0 {
		b.WriteString("No conversations.\n")
		return b.String()
	}

	for i, c := range conversations {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, participantNames(c))
		fmt.Fprintf(&b, "- **ID:** %s\n", c.ID)
		if c.LastMessage != nil {
			fmt.Fprintf(&b, "- **Last Message:** %s\n", extract.Truncate(c.LastMessage.Text, messagePreview, ellipsis))
			fmt.Fprintf(&b, "- **Time:** %s\n", formatDateTime(c.LastMessage.Timestamp))
		}
		fmt.Fprintf(&b, "- **Unread:** %d\n\n", c.UnreadCount)
	}
	return b.String()
}

func participantNames(c types.Conversation) string {
	if len(c.Participants) == 0 {
		return "Unknown"
	}
	names := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
