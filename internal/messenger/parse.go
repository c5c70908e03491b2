package messenger

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fbcli/internal/extract"
	"fbcli/internal/logging"
	"fbcli/internal/types"
)

const (
	rowSeparator  = "·"
	unknownName   = "Unknown"
	minBubbleText = 2
)

func selectorStrategies(selectors []string) []extract.Strategy[*goquery.Document, *goquery.Selection] {
	out := make([]extract.Strategy[*goquery.Document, *goquery.Selection], 0, len(selectors))
	for _, sel := range selectors {
		out = append(out, extract.Strategy[*goquery.Document, *goquery.Selection]{
			Name: sel,
			Run: func(doc *goquery.Document) (*goquery.Selection, bool) {
				s := doc.Find(sel)
				return s, s.Length() > 0
			},
		})
	}
	return out
}

var (
	rowStrategies    = selectorStrategies(rowSelectors)
	bubbleStrategies = selectorStrategies(bubbleSelectors)
)

// rowText splits a thread row into sender name, preview and relative time.
// Rows read "Name · preview · time"; a row without separators only yields
// the unknown name.
func rowText(text string) (name, preview, relative string) {
	parts := strings.Split(text, rowSeparator)
	for i := range parts {
		parts[i] = extract.TrimSpace(parts[i])
	}
	name = unknownName
	if len(parts) >= 2 {
		if parts[0] != "" {
			name = parts[0]
		}
		relative = parts[len(parts)-1]
		if len(parts) > 2 {
			preview = strings.Join(parts[1:len(parts)-1], " "+rowSeparator+" ")
		}
	}
	if first, _, ok := strings.Cut(name, rowSeparator); ok && first != "" {
		name = extract.TrimSpace(first)
	}
	return name, preview, relative
}

func unread(row *goquery.Selection) int {
	if label, ok := row.Attr("aria-label"); ok && unreadLabel.MatchString(label) {
		return 1
	}
	if row.Is(boldMarker) || row.Find(boldMarker).Length() > 0 {
		return 1
	}
	return 0
}

// ParseConversations reads up to limit thread rows from the inbox. Rows
// without a numeric thread id are skipped.
func ParseConversations(doc *goquery.Document, limit int, now time.Time) []types.Conversation {
	log := logging.Get(logging.CategoryMessenger)
	conversations := []types.Conversation{}

	rows, how, ok := extract.First(doc, rowStrategies...)
	if !ok {
		log.Debug("no conversation rows found")
		return conversations
	}
	log.Debug("found %d conversation rows with %s", rows.Length(), how)
	if rows.Length() > limit {
		rows = rows.Slice(0, limit)
	}

	rows.Each(func(_ int, row *goquery.Selection) {
		href, _ := row.Attr("href")
		m := threadIDPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		name, preview, relative := rowText(extract.GetText(row.Get(0)))

		c := types.Conversation{
			ID:           m[1],
			Participants: []types.Participant{{ID: "", Name: name}},
			UnreadCount:  unread(row),
		}
		if preview != "" {
			c.LastMessage = &types.LastMessage{
				Text:         preview,
				Timestamp:    now,
				SenderID:     "",
				RelativeTime: relative,
			}
		}
		conversations = append(conversations, c)
	})

	log.Info("retrieved %d conversations", len(conversations))
	return conversations
}

func styleContains(sel *goquery.Selection, needle string) bool {
	style, ok := sel.Attr("style")
	return ok && strings.Contains(style, needle)
}

// sent reports whether a bubble was written by the account owner.
func sent(bubble *goquery.Selection) bool {
	return bubble.Closest(sentAncestor).Length() > 0 ||
		styleContains(bubble, "background-color") ||
		styleContains(bubble.Closest(bubbleCell), "flex-end")
}

// ParseMessages reads the last limit bubbles of a thread. Bubbles with less
// than two characters are dropped; ids keep the bubble's position among the
// last limit candidates.
func ParseMessages(doc *goquery.Document, conversationID string, limit int, now time.Time) []types.Message {
	messages := []types.Message{}

	bubbles, how, ok := extract.First(doc, bubbleStrategies...)
	if !ok {
		logging.Get(logging.CategoryMessenger).Debug("no message bubbles found")
		return messages
	}
	if n := bubbles.Length(); n > limit {
		bubbles = bubbles.Slice(n-limit, n)
	}
	logging.Get(logging.CategoryMessenger).Debug("reading %d bubbles matched by %s", bubbles.Length(), how)

	bubbles.Each(func(i int, bubble *goquery.Selection) {
		text := extract.Text(bubble)
		if extract.RuneLen(text) < minBubbleText {
			return
		}
		m := types.Message{
			ID:             fmt.Sprintf("msg_%d", i),
			ConversationID: conversationID,
			SenderID:       types.SenderThem,
			SenderName:     "Other",
			Text:           text,
			Timestamp:      now,
		}
		if sent(bubble) {
			m.SenderID = types.SenderMe
			m.SenderName = "Me"
		}
		messages = append(messages, m)
	})
	return messages
}
