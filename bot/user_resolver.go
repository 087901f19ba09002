package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"iqbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// memberNames is one cached username/display pair.
type memberNames struct {
	username string
	display  string
	expiry   time.Time
}

// memberNameResolver resolves guild members to their username and display
// name through the Discord API, with a short-lived cache in front. It
// implements interfaces.NameResolver.
type memberNameResolver struct {
	session *discordgo.Session

	mu       sync.RWMutex
	cache    map[string]memberNames // "guildID:userID" -> names
	cacheTTL time.Duration
}

// NewMemberNameResolver creates a name resolver over the given session.
func NewMemberNameResolver(session *discordgo.Session) interfaces.NameResolver {
	return &memberNameResolver{
		session:  session,
		cache:    make(map[string]memberNames),
		cacheTTL: 5 * time.Minute,
	}
}

// MemberNames returns the member's username and display form. The display
// form prefers the server nickname, then the global display name.
func (r *memberNameResolver) MemberNames(ctx context.Context, guildID, userID int64) (string, string, error) {
	key := strconv.FormatInt(guildID, 10) + ":" + strconv.FormatInt(userID, 10)

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok && time.Now().Before(cached.expiry) {
		return cached.username, cached.display, nil
	}

	member, err := r.session.GuildMember(
		strconv.FormatInt(guildID, 10),
		strconv.FormatInt(userID, 10),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch guild member %d/%d: %w", guildID, userID, err)
	}
	if member.User == nil {
		return "", "", fmt.Errorf("guild member %d/%d has no user data", guildID, userID)
	}

	username := member.User.Username
	display := member.DisplayName()
	if display == "" {
		display = username
	}

	r.mu.Lock()
	r.cache[key] = memberNames{
		username: username,
		display:  display,
		expiry:   time.Now().Add(r.cacheTTL),
	}
	r.mu.Unlock()

	return username, display, nil
}
