package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, input OrderInput) (snowflake.ID, error)
	Update(ctx context.Context, id snowflake.ID, input OrderInput) error
	Delete(ctx context.Context, id snowflake.ID) error
	GetByID(ctx context.Context, id snowflake.ID) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, error)
	History(ctx context.Context, orderID snowflake.ID) ([]OrderChange, error)
	CompletionOptions(ctx context.Context) ([]CompletionOption, error)
}
