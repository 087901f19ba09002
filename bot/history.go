package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"iqbot/domain/entities"
	"iqbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// messagePageSize is the Discord API maximum per history call.
const messagePageSize = 100

// channelHistorian reads recent channel history through the Discord API.
// It implements interfaces.ChannelHistorian.
type channelHistorian struct {
	session *discordgo.Session
}

// NewChannelHistorian creates a historian over the given session.
func NewChannelHistorian(session *discordgo.Session) interfaces.ChannelHistorian {
	return &channelHistorian{session: session}
}

// RecentMessages walks the channel backwards from the anchor message and
// returns messages newer than the window, newest first, capped at limit.
func (h *channelHistorian) RecentMessages(ctx context.Context, channelID, beforeMessageID int64, window time.Duration, limit int) ([]entities.ChannelMessage, error) {
	channel := strconv.FormatInt(channelID, 10)
	before := strconv.FormatInt(beforeMessageID, 10)
	cutoff := time.Now().Add(-window)

	var messages []entities.ChannelMessage
	for len(messages) < limit {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pageSize := messagePageSize
		if remaining := limit - len(messages); remaining < pageSize {
			pageSize = remaining
		}

		batch, err := h.session.ChannelMessages(channel, pageSize, before, "", "")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch channel messages: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		// batches arrive newest first
		reachedCutoff := false
		for _, msg := range batch {
			if msg.Timestamp.Before(cutoff) {
				reachedCutoff = true
				break
			}

			converted, err := convertMessage(msg)
			if err != nil {
				continue
			}
			messages = append(messages, converted)
		}
		if reachedCutoff || len(batch) < pageSize {
			break
		}

		before = batch[len(batch)-1].ID
	}

	return messages, nil
}

func convertMessage(msg *discordgo.Message) (entities.ChannelMessage, error) {
	id, err := strconv.ParseInt(msg.ID, 10, 64)
	if err != nil {
		return entities.ChannelMessage{}, fmt.Errorf("invalid message ID %q: %w", msg.ID, err)
	}
	authorID, err := strconv.ParseInt(msg.Author.ID, 10, 64)
	if err != nil {
		return entities.ChannelMessage{}, fmt.Errorf("invalid author ID %q: %w", msg.Author.ID, err)
	}

	converted := entities.ChannelMessage{
		ID:          id,
		AuthorID:    authorID,
		AuthorIsBot: msg.Author.Bot,
		Content:     msg.Content,
	}

	if msg.MessageReference != nil && msg.MessageReference.MessageID != "" {
		if replyTo, err := strconv.ParseInt(msg.MessageReference.MessageID, 10, 64); err == nil {
			converted.ReplyToID = &replyTo
		}
	}

	return converted, nil
}
