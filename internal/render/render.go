// Package render writes extracted records to stdout as JSON, Markdown, a
// table or terminal-styled Markdown.
package render

import (
	"fmt"
	"io"
	"strings"

	"fbcli/internal/types"
)

// Format selects an output renderer.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTable    Format = "table"
	FormatPretty   Format = "pretty"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatJSON, FormatMarkdown, FormatTable, FormatPretty}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatJSON, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q (want json, markdown, table or pretty)", types.ErrInvalidInput, s)
}

// Listings writes a search result set.
func Listings(w io.Writer, f Format, listings []types.Listing) error {
	if listings == nil {
		listings = []types.Listing{}
	}
	switch f {
	case FormatMarkdown:
		return text(w, MarkdownListings(listings))
	case FormatPretty:
		return pretty(w, MarkdownListings(listings))
	case FormatTable:
		return TableListings(w, listings)
	default:
		return JSON(w, struct {
			Listings []types.Listing `json:"listings"`
		}{listings})
	}
}

// Listing writes a single listing. JSON output is the bare object.
func Listing(w io.Writer, f Format, listing *types.Listing) error {
	if f == FormatJSON || f == "" {
		return JSON(w, listing)
	}
	return Listings(w, f, []types.Listing{*listing})
}

// Conversations writes an inbox listing.
func Conversations(w io.Writer, f Format, conversations []types.Conversation) error {
	if conversations == nil {
		conversations = []types.Conversation{}
	}
	switch f {
	case FormatMarkdown:
		return text(w, MarkdownConversations(conversations))
	case FormatPretty:
		return pretty(w, MarkdownConversations(conversations))
	case FormatTable:
		return TableConversations(w, conversations)
	default:
		return JSON(w, struct {
			Conversations []types.Conversation `json:"conversations"`
		}{conversations})
	}
}

// Messages writes a thread transcript.
func Messages(w io.Writer, f Format, messages []types.Message) error {
	if messages == nil {
		messages = []types.Message{}
	}
	switch f {
	case FormatMarkdown:
		return text(w, MarkdownMessages(messages))
	case FormatPretty:
		return pretty(w, MarkdownMessages(messages))
	case FormatTable:
		return TableMessages(w, messages)
	default:
		return JSON(w, struct {
			Messages []types.Message `json:"messages"`
		}{messages})
	}
}

// SendResult is the acknowledgement printed after a message is sent.
type SendResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Sent writes the send acknowledgement. It is always JSON.
func Sent(w io.Writer) error {
	return JSON(w, SendResult{Success: true, Message: "Message sent"})
}

// text writes a Markdown document followed by a newline, like a console print.
func text(w io.Writer, doc string) error {
	_, err := io.WriteString(w, doc+"\n")
	return err
}
