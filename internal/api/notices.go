package api

import (
	"context"
	"net/url"

	"shop-admin/internal/service"
	"shop-admin/internal/util"

	"go.uber.org/zap"
)

// NoticeStore carries a notice from a mutation to the page rendered after
// its redirect. Put returns the query parameters to attach to the redirect;
// Take reads them back and yields the notice at most once.
type NoticeStore interface {
	Put(ctx context.Context, n service.Notice) url.Values
	Take(ctx context.Context, query url.Values) *service.Notice
}

// QueryNotices keeps the notice in the redirect URL itself
type QueryNotices struct{}

func (QueryNotices) Put(_ context.Context, n service.Notice) url.Values {
	if n.Message == "" {
		return nil
	}
	return url.Values{
		"level": {string(n.Level)},
		"msg":   {n.Message},
	}
}

func (QueryNotices) Take(_ context.Context, query url.Values) *service.Notice {
	msg := query.Get("msg")
	if msg == "" {
		return nil
	}
	level := service.Level(query.Get("level"))
	if level != service.LevelError {
		level = service.LevelSuccess
	}
	return &service.Notice{Level: level, Message: msg}
}

// NoticeBackend is the one-shot key/value store behind RedisNotices
type NoticeBackend interface {
	PutNotice(ctx context.Context, level, message string) (string, error)
	PopNotice(ctx context.Context, token string) (level, message string, ok bool, err error)
}

// RedisNotices stores the notice server side and puts only its token in the
// redirect. When the backend is unavailable it degrades to QueryNotices.
type RedisNotices struct {
	backend NoticeBackend
	logger  *zap.Logger
}

// NewRedisNotices creates a notice store over backend
func NewRedisNotices(backend NoticeBackend) *RedisNotices {
	return &RedisNotices{backend: backend, logger: util.GetLogger()}
}

func (r *RedisNotices) Put(ctx context.Context, n service.Notice) url.Values {
	if n.Message == "" {
		return nil
	}
	token, err := r.backend.PutNotice(ctx, string(n.Level), n.Message)
	if err != nil {
		r.logger.Warn("Failed to store notice, sending it in the URL", zap.Error(err))
		return QueryNotices{}.Put(ctx, n)
	}
	return url.Values{"notice": {token}}
}

func (r *RedisNotices) Take(ctx context.Context, query url.Values) *service.Notice {
	token := query.Get("notice")
	if token == "" {
		return QueryNotices{}.Take(ctx, query)
	}

	level, message, ok, err := r.backend.PopNotice(ctx, token)
	if err != nil {
		r.logger.Warn("Failed to read notice", zap.String("token", token), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return &service.Notice{Level: service.Level(level), Message: message}
}
