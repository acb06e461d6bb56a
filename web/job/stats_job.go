// Package job contains the scheduled background jobs run by the web server.
package job

import (
	"context"

	"blogql/logger"
	"blogql/util/common"
	"blogql/web/service"
)

// StatsJob logs entity counts so operators can watch data growth over time.
type StatsJob struct {
	userService    service.UserService
	postService    service.PostService
	commentService service.CommentService
}

func NewStatsJob() *StatsJob {
	return new(StatsJob)
}

func (j *StatsJob) Run() {
	defer common.Recover("stats job")

	ctx := context.Background()

	users, err := j.userService.CountUsers(ctx)
	if err != nil {
		logger.Warning("stats job: count users failed:", err)
		return
	}
	posts, err := j.postService.CountPosts(ctx)
	if err != nil {
		logger.Warning("stats job: count posts failed:", err)
		return
	}
	comments, err := j.commentService.CountComments(ctx)
	if err != nil {
		logger.Warning("stats job: count comments failed:", err)
		return
	}
	logger.Infof("stats: %d users, %d posts, %d comments", users, posts, comments)
}
