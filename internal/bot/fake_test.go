package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"picturegame-bot/internal/config"
	"picturegame-bot/internal/platform"
)

type fakeMessage struct {
	To      string
	Subject string
	Body    string
}

type fakeFlair struct {
	Target string
	Text   string
	CSS    string
}

type fakeWikiEdit struct {
	Page    string
	Content string
	Reason  string
}

type fakeClient struct {
	botUser  string
	round    *platform.Round
	comments []platform.Comment
	wiki     map[string]string

	nextID        int
	messages      []fakeMessage
	replies       []platform.Comment
	distinguished []string
	postFlairs    []fakeFlair
	userFlairs    map[string]string
	setUserFlairs []fakeFlair
	wikiEdits     []fakeWikiEdit

	latestErr error
	flairErr  error
}

func newFakeClient(botUser string) *fakeClient {
	return &fakeClient{
		botUser:    botUser,
		wiki:       make(map[string]string),
		userFlairs: make(map[string]string),
	}
}

func (f *fakeClient) LatestRound(ctx context.Context) (*platform.Round, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	round := *f.round
	return &round, nil
}

func (f *fakeClient) CommentTree(ctx context.Context, postID string) ([]platform.Comment, error) {
	return append([]platform.Comment(nil), f.comments...), nil
}

func (f *fakeClient) Reply(ctx context.Context, parentID, body string) (*platform.Comment, error) {
	f.nextID++
	parent := parentID
	if f.round != nil && parentID == f.round.ID {
		parent = ""
	}
	comment := platform.Comment{
		ID:       fmt.Sprintf("t1_bot%d", f.nextID),
		ParentID: parent,
		Author:   f.botUser,
		Body:     body,
	}
	f.comments = append(f.comments, comment)
	f.replies = append(f.replies, comment)
	return &comment, nil
}

func (f *fakeClient) Distinguish(ctx context.Context, commentID string) error {
	f.distinguished = append(f.distinguished, commentID)
	return nil
}

func (f *fakeClient) SetPostFlair(ctx context.Context, postID, text, cssClass string) error {
	if f.flairErr != nil {
		err := f.flairErr
		f.flairErr = nil
		return err
	}
	f.postFlairs = append(f.postFlairs, fakeFlair{Target: postID, Text: text, CSS: cssClass})
	if f.round != nil && f.round.ID == postID {
		f.round.Flair = text
	}
	return nil
}

func (f *fakeClient) UserFlair(ctx context.Context, username string) (string, error) {
	return f.userFlairs[username], nil
}

func (f *fakeClient) SetUserFlair(ctx context.Context, username, text, cssClass string) error {
	f.userFlairs[username] = text
	f.setUserFlairs = append(f.setUserFlairs, fakeFlair{Target: username, Text: text, CSS: cssClass})
	return nil
}

func (f *fakeClient) SendMessage(ctx context.Context, to, subject, body string) error {
	f.messages = append(f.messages, fakeMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (f *fakeClient) ReadWikiPage(ctx context.Context, page string) (string, error) {
	return f.wiki[page], nil
}

func (f *fakeClient) EditWikiPage(ctx context.Context, page, content, reason string) error {
	f.wiki[page] = content
	f.wikiEdits = append(f.wikiEdits, fakeWikiEdit{Page: page, Content: content, Reason: reason})
	return nil
}

type fakePlayer struct {
	client   *fakeClient
	username string

	passwords   []string
	logins      []string
	submissions []platform.Round
	replies     []platform.Comment
	nextID      int
	loginErr    error
}

func (f *fakePlayer) Username() string { return f.username }

func (f *fakePlayer) Login(ctx context.Context, password string) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.logins = append(f.logins, password)
	return nil
}

func (f *fakePlayer) SubmitPost(ctx context.Context, title, imageURL string) (*platform.Round, error) {
	f.nextID++
	round := platform.Round{
		ID:        fmt.Sprintf("t3_new%d", f.nextID),
		Title:     title,
		Author:    f.username,
		URL:       imageURL,
		CreatedAt: time.Now().UTC(),
	}
	f.submissions = append(f.submissions, round)
	return &round, nil
}

func (f *fakePlayer) Reply(ctx context.Context, parentID, body string) (*platform.Comment, error) {
	f.nextID++
	comment := platform.Comment{
		ID:       fmt.Sprintf("t1_player%d", f.nextID),
		ParentID: parentID,
		Author:   f.username,
		Body:     body,
	}
	f.replies = append(f.replies, comment)
	if f.client != nil {
		f.client.comments = append(f.client.comments, comment)
	}
	return &comment, nil
}

func (f *fakePlayer) Comment(ctx context.Context, postID, body string) (*platform.Comment, error) {
	return f.Reply(ctx, "", body)
}

func (f *fakePlayer) UpdatePassword(ctx context.Context, current, next string) error {
	f.passwords = append(f.passwords, next)
	return nil
}

type fakeImages struct{ uploads []string }

func (f *fakeImages) Upload(ctx context.Context, path, title string) (string, error) {
	f.uploads = append(f.uploads, path)
	return "https://i.example/challenge.jpg", nil
}

type fakeFetcher struct{ queries []string }

func (f *fakeFetcher) Fetch(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return "/tmp/challenge.jpg", nil
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.BotUsername = "GameBot"
	cfg.BotPassword = "hunter2"
	cfg.WordlistPath = "missing-wordlist.txt"
	// Keep background watchers quiet during tests.
	cfg.WatchIntervalSeconds = 3600
	return cfg
}

func newTestBot(t *testing.T, cfg config.Config, clock *testClock) (*Bot, *fakeClient, *fakePlayer) {
	t.Helper()
	client := newFakeClient(cfg.BotUsername)
	player := &fakePlayer{client: client, username: "GameAccount"}
	b := New(cfg, client, player, &fakeImages{}, &fakeFetcher{}, nil, "initial-pass")
	b.now = clock.Now
	t.Cleanup(b.StopWatchers)
	return b, client, player
}

func testRound(number int, flair string, createdAt time.Time) *platform.Round {
	return &platform.Round{
		ID:        fmt.Sprintf("t3_round%d", number),
		Title:     fmt.Sprintf("[Round %d] Find this place", number),
		Author:    "somebody",
		Flair:     flair,
		CreatedAt: createdAt,
	}
}
