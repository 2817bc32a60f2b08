package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/redis/go-redis/v9"
)

// Membership changes run as Lua so the check and the write happen in one
// server-side step. Both return -1 when the activity hash is missing.
var (
	signUpScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local members = redis.call('LRANGE', KEYS[2], 0, -1)
for _, m in ipairs(members) do
	if m == ARGV[1] then
		return 0
	end
end
redis.call('RPUSH', KEYS[2], ARGV[1])
return 1
`)

	unregisterScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
return redis.call('LREM', KEYS[2], 1, ARGV[1])
`)
)

// RedisStore keeps the roster in Redis:
//
//	<prefix>:activities            list of names in display order
//	<prefix>:activity:<name>       hash of description, schedule, max_participants
//	<prefix>:participants:<name>   list of emails in signup order
type RedisStore struct {
	client *redis.Client
	prefix string
	seed   model.Roster
}

// NewRedisStore constructs a RedisStore whose keys start with prefix.
func NewRedisStore(client *redis.Client, prefix string, seed model.Roster) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, seed: seed.Clone()}
}

func (s *RedisStore) namesKey() string { return s.prefix + ":activities" }

func (s *RedisStore) activityKey(name string) string { return s.prefix + ":activity:" + name }

func (s *RedisStore) participantsKey(name string) string { return s.prefix + ":participants:" + name }

// SeedIfEmpty loads the seed roster unless one is already stored.
func (s *RedisStore) SeedIfEmpty(ctx context.Context) error {
	n, err := s.client.Exists(ctx, s.namesKey()).Result()
	if err != nil {
		return fmt.Errorf("check roster key: %w", err)
	}
	if n > 0 {
		return nil
	}
	return s.Reset(ctx)
}

// List reads the name list, then every activity hash and participant list
// in a single pipeline.
func (s *RedisStore) List(ctx context.Context) (model.Roster, error) {
	names, err := s.client.LRange(ctx, s.namesKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list activity names: %w", err)
	}

	hashes := make([]*redis.MapStringStringCmd, len(names))
	members := make([]*redis.StringSliceCmd, len(names))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, name := range names {
			hashes[i] = p.HGetAll(ctx, s.activityKey(name))
			members[i] = p.LRange(ctx, s.participantsKey(name), 0, -1)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	roster := make(model.Roster, 0, len(names))
	for i, name := range names {
		h := hashes[i].Val()
		maxParticipants, err := strconv.Atoi(h["max_participants"])
		if err != nil {
			return nil, fmt.Errorf("activity %q: bad max_participants: %w", name, err)
		}
		participants := members[i].Val()
		if participants == nil {
			participants = []string{}
		}
		roster = append(roster, model.NamedActivity{
			Name: name,
			Activity: model.Activity{
				Description:     h["description"],
				Schedule:        h["schedule"],
				MaxParticipants: maxParticipants,
				Participants:    participants,
			},
		})
	}
	return roster, nil
}

// SignUp appends email to the activity's participant list.
func (s *RedisStore) SignUp(ctx context.Context, activity, email string) error {
	keys := []string{s.activityKey(activity), s.participantsKey(activity)}
	res, err := signUpScript.Run(ctx, s.client, keys, email).Int()
	if err != nil {
		return fmt.Errorf("signup script: %w", err)
	}
	switch res {
	case -1:
		return ErrActivityNotFound
	case 0:
		return ErrAlreadySignedUp
	}
	return nil
}

// Unregister removes email from the activity's participant list.
func (s *RedisStore) Unregister(ctx context.Context, activity, email string) error {
	keys := []string{s.activityKey(activity), s.participantsKey(activity)}
	res, err := unregisterScript.Run(ctx, s.client, keys, email).Int()
	if err != nil {
		return fmt.Errorf("unregister script: %w", err)
	}
	switch res {
	case -1:
		return ErrActivityNotFound
	case 0:
		return ErrNotSignedUp
	}
	return nil
}

// Reset deletes every roster key and writes the seed inside MULTI/EXEC.
func (s *RedisStore) Reset(ctx context.Context) error {
	existing, err := s.client.LRange(ctx, s.namesKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("list activity names: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		stale := []string{s.namesKey()}
		for _, name := range existing {
			stale = append(stale, s.activityKey(name), s.participantsKey(name))
		}
		for _, na := range s.seed {
			stale = append(stale, s.activityKey(na.Name), s.participantsKey(na.Name))
		}
		p.Del(ctx, stale...)

		for _, na := range s.seed {
			a := na.Activity
			p.RPush(ctx, s.namesKey(), na.Name)
			p.HSet(ctx, s.activityKey(na.Name), map[string]interface{}{
				"description":      a.Description,
				"schedule":         a.Schedule,
				"max_participants": a.MaxParticipants,
			})
			if len(a.Participants) > 0 {
				emails := make([]interface{}, len(a.Participants))
				for i, e := range a.Participants {
					emails[i] = e
				}
				p.RPush(ctx, s.participantsKey(na.Name), emails...)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset roster: %w", err)
	}
	return nil
}
