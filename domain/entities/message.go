package entities

// ChannelMessage is one record of bounded channel history handed to the
// context assembler. Histories are ordered newest first.
type ChannelMessage struct {
	ID          int64
	AuthorID    int64
	AuthorIsBot bool
	Content     string
	ReplyToID   *int64
}
