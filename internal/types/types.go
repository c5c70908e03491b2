// Package types provides the record types shared by the marketplace and
// messenger extractors, the renderers and the CLI.
// Types in this package are plain data with no behaviour beyond small helpers.
package types

import "time"

// =============================================================================
// MARKETPLACE
// =============================================================================

// Seller identifies the owner of a listing.
type Seller struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Listing is a single marketplace item.
// Title is nil when the extractor could not find one, which is distinct from
// an empty title.
type Listing struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title"`
	Price       int       `json:"price"`
	Currency    string    `json:"currency"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images"`
	Seller      Seller    `json:"seller"`
	URL         string    `json:"url"`
	PostedAt    time.Time `json:"postedAt"`
	Category    string    `json:"category,omitempty"`
	Condition   string    `json:"condition,omitempty"`
}

// TitleOr returns the listing title, or fallback when it is unset.
func (l Listing) TitleOr(fallback string) string {
	if l.Title == nil {
		return fallback
	}
	return *l.Title
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// SearchOptions are the inputs of a marketplace search.
type SearchOptions struct {
	Query    string
	Location string
	Radius   int
	MinPrice int
	MaxPrice int
	Category string
	Limit    int
}

// DefaultSearchLimit is used when SearchOptions.Limit is not positive.
const DefaultSearchLimit = 20

// EffectiveLimit returns Limit or the default.
func (o SearchOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultSearchLimit
	}
	return o.Limit
}

// =============================================================================
// MESSENGER
// =============================================================================

// Participant is one member of a conversation.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LastMessage is the preview shown in the conversation list.
// RelativeTime keeps the site's own label ("2 h", "Mon") since the list does
// not expose an absolute time.
type LastMessage struct {
	Text         string    `json:"text"`
	Timestamp    time.Time `json:"timestamp"`
	SenderID     string    `json:"senderId"`
	RelativeTime string    `json:"relativeTime,omitempty"`
}

// Conversation is a messenger thread summary.
type Conversation struct {
	ID           string        `json:"id"`
	Participants []Participant `json:"participants"`
	LastMessage  *LastMessage  `json:"lastMessage,omitempty"`
	UnreadCount  int           `json:"unreadCount"`
}

// Attachment is a file or image attached to a message.
type Attachment struct {
	Type string `json:"type"` // image, file
	URL  string `json:"url"`
}

// Message is a single bubble in a conversation.
type Message struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversationId"`
	SenderID       string       `json:"senderId"`
	SenderName     string       `json:"senderName"`
	Text           string       `json:"text"`
	Timestamp      time.Time    `json:"timestamp"`
	Attachments    []Attachment `json:"attachments,omitempty"`
}

// Sender ids used for classified messages.
const (
	SenderMe   = "me"
	SenderThem = "them"
)

// MessageOptions bound the number of records a messenger read returns.
type MessageOptions struct {
	Limit int
}

// Default limits for messenger reads.
const (
	DefaultConversationLimit = 20
	DefaultMessageLimit      = 50
)

// LimitOr returns Limit, or def when Limit is not positive.
func (o MessageOptions) LimitOr(def int) int {
	if o.Limit <= 0 {
		return def
	}
	return o.Limit
}
