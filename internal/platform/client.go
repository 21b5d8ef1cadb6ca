package platform

import "context"

// Client is the moderator-session surface the bot account uses. The comment
// tree contract is load-bearing: implementations must force-expand any
// collapsed branches before returning, a shallow listing silently hides
// valid answers.
type Client interface {
	LatestRound(ctx context.Context) (*Round, error)
	CommentTree(ctx context.Context, postID string) ([]Comment, error)
	Reply(ctx context.Context, parentID, body string) (*Comment, error)
	Distinguish(ctx context.Context, commentID string) error
	SetPostFlair(ctx context.Context, postID, text, cssClass string) error
	UserFlair(ctx context.Context, username string) (string, error)
	SetUserFlair(ctx context.Context, username, text, cssClass string) error
	SendMessage(ctx context.Context, to, subject, body string) error
	ReadWikiPage(ctx context.Context, page string) (string, error)
	EditWikiPage(ctx context.Context, page, content, reason string) error
}

// PlayerSession is the shared-account surface. It is a separate login from
// Client: posts and accept replies must come from the account the players
// pass around, not from the moderator bot.
type PlayerSession interface {
	Username() string
	Login(ctx context.Context, password string) error
	SubmitPost(ctx context.Context, title, imageURL string) (*Round, error)
	Reply(ctx context.Context, parentID, body string) (*Comment, error)
	Comment(ctx context.Context, postID, body string) (*Comment, error)
	UpdatePassword(ctx context.Context, current, next string) error
}

// ImageHost uploads a local file and returns a public URL.
type ImageHost interface {
	Upload(ctx context.Context, path, title string) (string, error)
}

// ImageFetcher resolves a location query to a downloaded image on disk.
type ImageFetcher interface {
	Fetch(ctx context.Context, query string) (string, error)
}
