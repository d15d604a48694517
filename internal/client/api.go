// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jeranaias/huddle-tui/internal/directory"
	"github.com/jeranaias/huddle-tui/internal/model"
)

// Team is the subset of a team record the client uses.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// =============================================================================
// DIRECTORY
// =============================================================================

type userAutocompleteResponse struct {
	Users        []model.User `json:"users"`
	OutOfChannel []model.User `json:"out_of_channel"`
}

// SearchUsers autocompletes usernames within a team and channel.
func (c *Client) SearchUsers(ctx context.Context, teamID, channelID, query string) (directory.UserResults, error) {
	q := url.Values{}
	q.Set("in_team", teamID)
	q.Set("in_channel", channelID)
	q.Set("name", query)
	q.Set("limit", strconv.Itoa(c.searchLimit))

	var resp userAutocompleteResponse
	if _, err := c.do(ctx, http.MethodGet, "/users/autocomplete", q, nil, &resp); err != nil {
		return directory.UserResults{}, fmt.Errorf("search users: %w", err)
	}
	return directory.UserResults{InChannel: resp.Users, OutOfChannel: resp.OutOfChannel}, nil
}

// SearchChannels autocompletes channel names within a team.
func (c *Client) SearchChannels(ctx context.Context, teamID, query string) ([]model.Channel, error) {
	q := url.Values{}
	q.Set("name", query)

	var channels []model.Channel
	path := "/teams/" + url.PathEscape(teamID) + "/channels/autocomplete"
	if _, err := c.do(ctx, http.MethodGet, path, q, nil, &channels); err != nil {
		return nil, fmt.Errorf("search channels: %w", err)
	}
	return channels, nil
}

// SearchEmoji autocompletes custom emoji names.
func (c *Client) SearchEmoji(ctx context.Context, query string) ([]string, error) {
	q := url.Values{}
	q.Set("name", query)

	var emoji []struct {
		Name string `json:"name"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/emoji/autocomplete", q, nil, &emoji); err != nil {
		return nil, fmt.Errorf("search emoji: %w", err)
	}
	names := make([]string, 0, len(emoji))
	for _, e := range emoji {
		names = append(names, e.Name)
	}
	return names, nil
}

// UsersByIDs resolves user IDs, e.g. to name post authors.
func (c *Client) UsersByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	if _, err := c.do(ctx, http.MethodPost, "/users/ids", nil, ids, &users); err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	return users, nil
}

// UserByUsername looks up a user by username.
func (c *Client) UserByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	if _, err := c.do(ctx, http.MethodGet, "/users/username/"+url.PathEscape(username), nil, nil, &user); err != nil {
		return model.User{}, fmt.Errorf("fetch user %q: %w", username, err)
	}
	return user, nil
}

// ChannelMembers lists the users in a channel.
func (c *Client) ChannelMembers(ctx context.Context, channelID string) ([]model.User, error) {
	q := url.Values{}
	q.Set("in_channel", channelID)
	q.Set("per_page", "200")

	var users []model.User
	if _, err := c.do(ctx, http.MethodGet, "/users", q, nil, &users); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return users, nil
}

// =============================================================================
// TEAMS AND CHANNELS
// =============================================================================

// TeamByName looks up a team by its URL name.
func (c *Client) TeamByName(ctx context.Context, name string) (Team, error) {
	var team Team
	if _, err := c.do(ctx, http.MethodGet, "/teams/name/"+url.PathEscape(name), nil, nil, &team); err != nil {
		return Team{}, fmt.Errorf("fetch team %q: %w", name, err)
	}
	return team, nil
}

// MyChannels lists the channels the current user belongs to in a team.
func (c *Client) MyChannels(ctx context.Context, teamID string) ([]model.Channel, error) {
	var channels []model.Channel
	path := "/users/me/teams/" + url.PathEscape(teamID) + "/channels"
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &channels); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}

// ChannelByName looks up a channel by team and URL name.
func (c *Client) ChannelByName(ctx context.Context, teamID, name string) (model.Channel, error) {
	var ch model.Channel
	path := "/teams/" + url.PathEscape(teamID) + "/channels/name/" + url.PathEscape(name)
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &ch); err != nil {
		return model.Channel{}, fmt.Errorf("fetch channel %q: %w", name, err)
	}
	return ch, nil
}

// DirectChannel returns the direct message channel with another user,
// creating it if needed.
func (c *Client) DirectChannel(ctx context.Context, otherUserID string) (model.Channel, error) {
	userID := c.UserID()
	if userID == "" {
		return model.Channel{}, ErrNotLoggedIn
	}
	var ch model.Channel
	if _, err := c.do(ctx, http.MethodPost, "/channels/direct", nil, []string{userID, otherUserID}, &ch); err != nil {
		return model.Channel{}, fmt.Errorf("open direct channel: %w", err)
	}
	return ch, nil
}

// SetChannelHeader replaces a channel header.
func (c *Client) SetChannelHeader(ctx context.Context, channelID, header string) error {
	body := map[string]string{"header": header}
	path := "/channels/" + url.PathEscape(channelID) + "/patch"
	if _, err := c.do(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		return fmt.Errorf("set header: %w", err)
	}
	return nil
}

// JoinChannel adds the current user to a channel.
func (c *Client) JoinChannel(ctx context.Context, channelID string) error {
	return c.AddChannelMember(ctx, channelID, c.UserID())
}

// AddChannelMember adds a user to a channel.
func (c *Client) AddChannelMember(ctx context.Context, channelID, userID string) error {
	if userID == "" {
		return ErrNotLoggedIn
	}
	body := map[string]string{"user_id": userID}
	path := "/channels/" + url.PathEscape(channelID) + "/members"
	if _, err := c.do(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return fmt.Errorf("add channel member: %w", err)
	}
	return nil
}

// LeaveChannel removes the current user from a channel.
func (c *Client) LeaveChannel(ctx context.Context, channelID string) error {
	userID := c.UserID()
	if userID == "" {
		return ErrNotLoggedIn
	}
	path := "/channels/" + url.PathEscape(channelID) + "/members/" + url.PathEscape(userID)
	if _, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("leave channel: %w", err)
	}
	return nil
}

// =============================================================================
// POSTS
// =============================================================================

type postList struct {
	Order []string              `json:"order"`
	Posts map[string]model.Post `json:"posts"`
}

// ChannelPosts fetches the newest page of posts in a channel, oldest first.
func (c *Client) ChannelPosts(ctx context.Context, channelID string, perPage int) ([]model.Post, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))

	var list postList
	path := "/channels/" + url.PathEscape(channelID) + "/posts"
	if _, err := c.do(ctx, http.MethodGet, path, q, nil, &list); err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	return list.ordered(), nil
}

// ordered returns the posts oldest first; Order is newest first.
func (l postList) ordered() []model.Post {
	posts := make([]model.Post, 0, len(l.Order))
	for i := len(l.Order) - 1; i >= 0; i-- {
		if p, ok := l.Posts[l.Order[i]]; ok {
			posts = append(posts, p)
		}
	}
	return posts
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, p model.Post) (model.Post, error) {
	var created model.Post
	if _, err := c.do(ctx, http.MethodPost, "/posts", nil, p, &created); err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// EditPost replaces the message of an existing post.
func (c *Client) EditPost(ctx context.Context, postID, message string) (model.Post, error) {
	var updated model.Post
	body := map[string]string{"message": message}
	path := "/posts/" + url.PathEscape(postID) + "/patch"
	if _, err := c.do(ctx, http.MethodPut, path, nil, body, &updated); err != nil {
		return model.Post{}, fmt.Errorf("edit post: %w", err)
	}
	return updated, nil
}

// DeletePost deletes a post.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(postID), nil, nil, nil); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// FlaggedPosts lists the current user's flagged posts, oldest first.
func (c *Client) FlaggedPosts(ctx context.Context) ([]model.Post, error) {
	userID := c.UserID()
	if userID == "" {
		return nil, ErrNotLoggedIn
	}
	var list postList
	path := "/users/" + url.PathEscape(userID) + "/posts/flagged"
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &list); err != nil {
		return nil, fmt.Errorf("fetch flagged posts: %w", err)
	}
	return list.ordered(), nil
}

type preference struct {
	UserID   string `json:"user_id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Value    string `json:"value"`
}

// SetFlagged flags or unflags a post for the current user. Flags are stored
// as "flagged_post" preferences.
func (c *Client) SetFlagged(ctx context.Context, postID string, flagged bool) error {
	userID := c.UserID()
	if userID == "" {
		return ErrNotLoggedIn
	}
	prefs := []preference{{UserID: userID, Category: "flagged_post", Name: postID, Value: "true"}}

	path := "/users/" + url.PathEscape(userID) + "/preferences"
	method := http.MethodPut
	if !flagged {
		path += "/delete"
		method = http.MethodPost
	}
	if _, err := c.do(ctx, method, path, nil, prefs, nil); err != nil {
		return fmt.Errorf("set flag: %w", err)
	}
	return nil
}
