package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.reddit.com"

type session struct {
	http      *http.Client
	base      string
	userAgent string
	username  string
	modhash   string
}

func newSession(base, userAgent, username string) *session {
	if base == "" {
		base = defaultBaseURL
	}
	jar, _ := cookiejar.New(nil)
	return &session{
		http:      &http.Client{Timeout: 30 * time.Second, Jar: jar},
		base:      base,
		userAgent: userAgent,
		username:  username,
	}
}

func (s *session) login(ctx context.Context, password string) error {
	form := url.Values{
		"user":     {s.username},
		"passwd":   {password},
		"api_type": {"json"},
	}
	var out struct {
		JSON struct {
			Errors [][]string `json:"errors"`
			Data   struct {
				Modhash string `json:"modhash"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := s.postForm(ctx, "/api/login", form, &out); err != nil {
		return err
	}
	for _, item := range out.JSON.Errors {
		if len(item) > 0 && (item[0] == "WRONG_PASSWORD" || item[0] == "INVALID_USER_PASS") {
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, s.username)
		}
	}
	s.modhash = out.JSON.Data.Modhash
	return nil
}

func (s *session) get(ctx context.Context, path string, query url.Values, out any) error {
	target := s.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return s.do(req, out)
}

func (s *session) postForm(ctx context.Context, path string, form url.Values, out any) error {
	if s.modhash != "" {
		form.Set("uh", s.modhash)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, out)
}

func (s *session) do(req *http.Request, out any) error {
	req.Header.Set("User-Agent", s.userAgent)
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		retry := 60 * time.Second
		if raw := resp.Header.Get("Retry-After"); raw != "" {
			if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
				retry = time.Duration(seconds) * time.Second
			}
		}
		return &RateLimitError{RetryAfter: retry}
	}
	if resp.StatusCode >= 400 {
		return &StatusError{Code: resp.StatusCode, URL: req.URL.Path}
	}
	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// thing is reddit's typed JSON envelope.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listingData struct {
	Children []thing `json:"children"`
}

type postData struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	LinkFlairText string  `json:"link_flair_text"`
	URL           string  `json:"url"`
	Permalink     string  `json:"permalink"`
	CreatedUTC    float64 `json:"created_utc"`
}

type commentData struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	ParentID   string          `json:"parent_id"`
	LinkID     string          `json:"link_id"`
	Author     string          `json:"author"`
	Body       string          `json:"body"`
	CreatedUTC float64         `json:"created_utc"`
	Replies    json.RawMessage `json:"replies"`
	Children   []string        `json:"children"`
}

func roundFromPost(data postData) Round {
	return Round{
		ID:        data.Name,
		Title:     data.Title,
		Author:    data.Author,
		Flair:     data.LinkFlairText,
		URL:       data.URL,
		Permalink: data.Permalink,
		CreatedAt: time.Unix(int64(data.CreatedUTC), 0).UTC(),
	}
}

// RedditClient is the moderator-session adapter implementing Client.
type RedditClient struct {
	session   *session
	subreddit string
}

func NewRedditClient(ctx context.Context, base, userAgent, subreddit, username, password string) (*RedditClient, error) {
	client := &RedditClient{
		session:   newSession(base, userAgent, username),
		subreddit: subreddit,
	}
	if err := client.session.login(ctx, password); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *RedditClient) LatestRound(ctx context.Context) (*Round, error) {
	var out thing
	query := url.Values{"limit": {"50"}, "raw_json": {"1"}}
	if err := c.session.get(ctx, "/r/"+c.subreddit+"/new.json", query, &out); err != nil {
		return nil, err
	}
	var listing listingData
	if err := json.Unmarshal(out.Data, &listing); err != nil {
		return nil, err
	}
	posts := make([]Round, 0, len(listing.Children))
	for _, child := range listing.Children {
		if child.Kind != "t3" {
			continue
		}
		var data postData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			continue
		}
		posts = append(posts, roundFromPost(data))
	}
	round, ok := SelectLatestRound(posts)
	if !ok {
		return nil, errors.New("no round post found")
	}
	return &round, nil
}

// CommentTree returns the round's comments flattened in tree order, resolving
// "more" stubs through /api/morechildren so collapsed branches are included.
func (c *RedditClient) CommentTree(ctx context.Context, postID string) ([]Comment, error) {
	shortID := strings.TrimPrefix(postID, "t3_")
	var out []thing
	query := url.Values{"limit": {"500"}, "raw_json": {"1"}}
	if err := c.session.get(ctx, "/comments/"+shortID+".json", query, &out); err != nil {
		return nil, err
	}
	if len(out) < 2 {
		return nil, nil
	}
	var listing listingData
	if err := json.Unmarshal(out[1].Data, &listing); err != nil {
		return nil, err
	}
	var comments []Comment
	var pending []string
	c.flatten(postID, listing.Children, &comments, &pending)
	for len(pending) > 0 {
		batch := pending
		if len(batch) > 100 {
			batch = batch[:100]
		}
		pending = pending[len(batch):]
		more, stubs, err := c.moreChildren(ctx, postID, batch)
		if err != nil {
			return nil, err
		}
		comments = append(comments, more...)
		pending = append(pending, stubs...)
	}
	return comments, nil
}

func (c *RedditClient) flatten(postID string, children []thing, comments *[]Comment, pending *[]string) {
	for _, child := range children {
		switch child.Kind {
		case "t1":
			var data commentData
			if err := json.Unmarshal(child.Data, &data); err != nil {
				continue
			}
			*comments = append(*comments, commentFromData(postID, data))
			if len(data.Replies) > 0 && string(data.Replies) != `""` {
				var replies thing
				if err := json.Unmarshal(data.Replies, &replies); err == nil {
					var sub listingData
					if err := json.Unmarshal(replies.Data, &sub); err == nil {
						c.flatten(postID, sub.Children, comments, pending)
					}
				}
			}
		case "more":
			var data commentData
			if err := json.Unmarshal(child.Data, &data); err != nil {
				continue
			}
			*pending = append(*pending, data.Children...)
		}
	}
}

func (c *RedditClient) moreChildren(ctx context.Context, postID string, ids []string) ([]Comment, []string, error) {
	form := url.Values{
		"link_id":  {postID},
		"children": {strings.Join(ids, ",")},
		"api_type": {"json"},
	}
	var out struct {
		JSON struct {
			Data struct {
				Things []thing `json:"things"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := c.session.postForm(ctx, "/api/morechildren", form, &out); err != nil {
		return nil, nil, err
	}
	var comments []Comment
	var pending []string
	c.flatten(postID, out.JSON.Data.Things, &comments, &pending)
	return comments, pending, nil
}

func commentFromData(postID string, data commentData) Comment {
	parent := data.ParentID
	if strings.HasPrefix(parent, "t3_") {
		parent = ""
	}
	return Comment{
		ID:        data.Name,
		PostID:    postID,
		ParentID:  parent,
		Author:    data.Author,
		Body:      data.Body,
		CreatedAt: time.Unix(int64(data.CreatedUTC), 0).UTC(),
	}
}

func (c *RedditClient) Reply(ctx context.Context, parentID, body string) (*Comment, error) {
	return postReply(ctx, c.session, parentID, body)
}

func (c *RedditClient) Distinguish(ctx context.Context, commentID string) error {
	form := url.Values{"id": {commentID}, "how": {"yes"}, "api_type": {"json"}}
	return c.session.postForm(ctx, "/api/distinguish", form, nil)
}

func (c *RedditClient) SetPostFlair(ctx context.Context, postID, text, cssClass string) error {
	form := url.Values{"link": {postID}, "text": {text}, "css_class": {cssClass}}
	return c.session.postForm(ctx, "/r/"+c.subreddit+"/api/flair", form, nil)
}

func (c *RedditClient) UserFlair(ctx context.Context, username string) (string, error) {
	var out struct {
		Users []struct {
			User      string `json:"user"`
			FlairText string `json:"flair_text"`
		} `json:"users"`
	}
	query := url.Values{"name": {username}}
	if err := c.session.get(ctx, "/r/"+c.subreddit+"/api/flairlist.json", query, &out); err != nil {
		return "", err
	}
	for _, entry := range out.Users {
		if strings.EqualFold(entry.User, username) {
			return entry.FlairText, nil
		}
	}
	return "", nil
}

func (c *RedditClient) SetUserFlair(ctx context.Context, username, text, cssClass string) error {
	form := url.Values{"name": {username}, "text": {text}, "css_class": {cssClass}}
	return c.session.postForm(ctx, "/r/"+c.subreddit+"/api/flair", form, nil)
}

func (c *RedditClient) SendMessage(ctx context.Context, to, subject, body string) error {
	form := url.Values{
		"to":       {to},
		"subject":  {subject},
		"text":     {body},
		"api_type": {"json"},
	}
	return c.session.postForm(ctx, "/api/compose", form, nil)
}

func (c *RedditClient) ReadWikiPage(ctx context.Context, page string) (string, error) {
	var out thing
	if err := c.session.get(ctx, "/r/"+c.subreddit+"/wiki/"+page+".json", url.Values{"raw_json": {"1"}}, &out); err != nil {
		return "", err
	}
	var data struct {
		ContentMD string `json:"content_md"`
	}
	if err := json.Unmarshal(out.Data, &data); err != nil {
		return "", err
	}
	return data.ContentMD, nil
}

func (c *RedditClient) EditWikiPage(ctx context.Context, page, content, reason string) error {
	form := url.Values{
		"page":    {page},
		"content": {content},
		"reason":  {reason},
	}
	return c.session.postForm(ctx, "/r/"+c.subreddit+"/api/wiki/edit", form, nil)
}

// RedditPlayer is the shared-account adapter implementing PlayerSession.
type RedditPlayer struct {
	session   *session
	subreddit string
}

func NewRedditPlayer(ctx context.Context, base, userAgent, subreddit, username, password string) (*RedditPlayer, error) {
	player := &RedditPlayer{
		session:   newSession(base, userAgent, username),
		subreddit: subreddit,
	}
	if err := player.session.login(ctx, password); err != nil {
		return nil, err
	}
	return player, nil
}

func (p *RedditPlayer) Username() string {
	return p.session.username
}

func (p *RedditPlayer) Login(ctx context.Context, password string) error {
	return p.session.login(ctx, password)
}

func (p *RedditPlayer) SubmitPost(ctx context.Context, title, imageURL string) (*Round, error) {
	form := url.Values{
		"sr":       {p.subreddit},
		"kind":     {"link"},
		"title":    {title},
		"url":      {imageURL},
		"api_type": {"json"},
	}
	var out struct {
		JSON struct {
			Data struct {
				Name string `json:"name"`
				URL  string `json:"url"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := p.session.postForm(ctx, "/api/submit", form, &out); err != nil {
		return nil, err
	}
	return &Round{
		ID:        out.JSON.Data.Name,
		Title:     title,
		Author:    p.session.username,
		URL:       imageURL,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (p *RedditPlayer) Reply(ctx context.Context, parentID, body string) (*Comment, error) {
	return postReply(ctx, p.session, parentID, body)
}

func (p *RedditPlayer) Comment(ctx context.Context, postID, body string) (*Comment, error) {
	return postReply(ctx, p.session, postID, body)
}

func (p *RedditPlayer) UpdatePassword(ctx context.Context, current, next string) error {
	form := url.Values{
		"curpass":  {current},
		"newpass":  {next},
		"verpass":  {next},
		"api_type": {"json"},
	}
	if err := p.session.postForm(ctx, "/api/update_password", form, nil); err != nil {
		return err
	}
	return p.session.login(ctx, next)
}

func postReply(ctx context.Context, s *session, parentID, body string) (*Comment, error) {
	form := url.Values{
		"thing_id": {parentID},
		"text":     {body},
		"api_type": {"json"},
	}
	var out struct {
		JSON struct {
			Data struct {
				Things []thing `json:"things"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := s.postForm(ctx, "/api/comment", form, &out); err != nil {
		return nil, err
	}
	for _, item := range out.JSON.Data.Things {
		if item.Kind != "t1" {
			continue
		}
		var data commentData
		if err := json.Unmarshal(item.Data, &data); err != nil {
			continue
		}
		comment := commentFromData("", data)
		return &comment, nil
	}
	return &Comment{ParentID: parentID, Author: s.username, Body: body, CreatedAt: time.Now().UTC()}, nil
}
