package storage

import "context"

const (
	KeyToken = "token"
	KeyUser  = "user"
)

type Repository interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
}
