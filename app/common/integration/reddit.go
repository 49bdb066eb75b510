package integration

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/wgparish/buy-it-for-life-tracker/app/common/config"
)

type RedditClient struct {
	client *reddit.Client
}

func NewRedditClient(redditConfig config.RedditConfig) (*RedditClient, error) {
	credentials := reddit.Credentials{
		ID:       redditConfig.ClientID,
		Secret:   redditConfig.ClientSecret,
		Username: redditConfig.Username,
		Password: redditConfig.Password,
	}

	client, err := reddit.NewClient(credentials, reddit.WithUserAgent(redditConfig.UserAgent))
	if err != nil {
		return nil, errors.Wrap(err, "error occurred while creating Reddit client")
	}

	return &RedditClient{client: client}, nil
}

func (rc *RedditClient) TopPostsOfMonth(ctx context.Context, subreddit string, limit int) ([]*reddit.Post, error) {
	posts, _, err := rc.client.Subreddit.TopPosts(ctx, subreddit, &reddit.ListPostOptions{
		ListOptions: reddit.ListOptions{Limit: limit},
		Time:        "month",
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error occurred while fetching top posts of r/%s", subreddit)
	}

	return posts, nil
}
