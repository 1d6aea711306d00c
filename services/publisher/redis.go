package publisher

import (
	"context"
	"encoding/base64"
	"math/rand/v2"
	"strconv"

	scanerrors "sjsage522/upworkscanner/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the redis stream publisher
type RedisOptions struct {
	Addr string
	DB   int
	// Stream is the prefix of the stream names
	Stream string
	// StreamCount spreads entries over Stream:0 .. Stream:StreamCount-1
	StreamCount     int
	StreamMaxLength int
}

// RedisPublisher implements Publisher using Redis streams
type RedisPublisher struct {
	client *redis.Client
	ctx    context.Context
	opts   RedisOptions
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, opts RedisOptions) *RedisPublisher {
	if opts.StreamCount < 1 {
		opts.StreamCount = 1
	}
	client := redis.NewClient(&redis.Options{
		Addr: opts.Addr,
		DB:   opts.DB,
	})

	return &RedisPublisher{
		client: client,
		ctx:    ctx,
		opts:   opts,
	}
}

// Ping checks that redis is reachable
func (p *RedisPublisher) Ping() error {
	if err := p.client.Ping(p.ctx).Err(); err != nil {
		return scanerrors.NewPublisher(p.opts.Addr, "redis is not reachable", err)
	}
	return nil
}

// Publish adds message to a randomly picked stream.
// The message is base64 encoded before publishing.
func (p *RedisPublisher) Publish(key string, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)
	stream := p.streamName(rand.IntN(p.opts.StreamCount))

	err := p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			key: encodedMessage,
		},
	}).Err()
	if err != nil {
		return scanerrors.NewPublisher(stream, "failed to publish "+key, err)
	}
	return nil
}

func (p *RedisPublisher) streamName(n int) string {
	return p.opts.Stream + ":" + strconv.Itoa(n)
}

// TrimStreams trims every result stream to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	iter := p.client.Scan(p.ctx, 0, p.opts.Stream+":*", 100).Iterator()
	for iter.Next(p.ctx) {
		stream := iter.Val()
		if err := p.client.XTrimMaxLen(p.ctx, stream, int64(p.opts.StreamMaxLength)).Err(); err != nil {
			return scanerrors.NewPublisher(stream, "failed to trim stream", err)
		}
	}
	if err := iter.Err(); err != nil {
		return scanerrors.NewPublisher(p.opts.Stream, "failed to list streams", err)
	}
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
