package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jbchangelogs/gateway/pkg/upstream"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server actions let the page renderer fetch batched data without exposing a
// public HTTP route. They share the handlers' statelessness and single-attempt
// policy, and they never surface a raw error: callers branch on Success.

const (
	fanOutLimit           = 8
	leaderboardRevalidate = time.Minute
)

type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type Actions struct {
	client *upstream.Client
}

func New(client *upstream.Client) *Actions {
	return &Actions{
		client: client,
	}
}

// CommentsBatch fetches the comment threads for a set of items concurrently.
// An item whose fetch fails is omitted from the map, one broken thread must
// not blank the whole page.
func (actions *Actions) CommentsBatch(ctx context.Context, itemType string, itemIds []string) Result {
	return actions.fanOut(ctx, itemIds, func(itemId string) string {
		return "/comments/get?type=" + url.QueryEscape(itemType) + "&item=" + url.QueryEscape(itemId)
	}, "comments are unavailable right now")
}

// UsersBatch fetches a set of user profiles concurrently, keyed by user id.
func (actions *Actions) UsersBatch(ctx context.Context, userIds []string) Result {
	return actions.fanOut(ctx, userIds, func(userId string) string {
		return "/users/get?id=" + url.QueryEscape(userId)
	}, "users are unavailable right now")
}

// Leaderboard fetches one leaderboard page through a revalidation window, the
// rows are slow-changing.
func (actions *Actions) Leaderboard(ctx context.Context, kind string, limit int) Result {
	if limit <= 0 {
		limit = 25
	}
	response, err := actions.client.Forward(ctx, upstream.Descriptor{
		Method:     http.MethodGet,
		Path:       "/leaderboard?type=" + url.QueryEscape(kind) + "&limit=" + strconv.Itoa(limit),
		Revalidate: leaderboardRevalidate,
	})
	if err != nil || !response.Successful() {
		if err != nil {
			logrus.Warnf("Action leaderboard upstream error: %v", err)
		}
		return Result{Success: false, Error: "leaderboard is unavailable right now"}
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(response.Body, &rows); err != nil {
		logrus.Warnf("Action leaderboard upstream parse error: %v", err)
		return Result{Success: false, Error: "leaderboard is unavailable right now"}
	}
	return Result{Success: true, Data: rows}
}

func (actions *Actions) fanOut(ctx context.Context, ids []string, pathFor func(string) string, unavailable string) Result {
	entries := make(map[string]json.RawMessage)
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(fanOutLimit)
	for _, id := range ids {
		id := id
		group.Go(func() error {
			response, err := actions.client.Forward(groupCtx, upstream.Descriptor{
				Method: http.MethodGet,
				Path:   pathFor(id),
			})
			if err == upstream.ErrNotConfigured {
				return err
			}
			if err != nil || !response.Successful() {
				if err != nil {
					logrus.Warnf("Action batch entry %v upstream error: %v", id, err)
				}
				return nil
			}
			mu.Lock()
			entries[id] = json.RawMessage(response.Body)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		logrus.Warnf("Action batch error: %v", err)
		return Result{Success: false, Error: unavailable}
	}
	return Result{Success: true, Data: entries}
}
