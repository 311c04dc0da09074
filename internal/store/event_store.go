package store

import (
	"sort"
	"sync"

	"wisefido-motion/internal/models"

	"github.com/spaolacci/murmur3"
)

// shardCount 锁分片数量（按 user_id 哈希）
const shardCount = 32

// EventStore 按用户、按日历日分桶的活动事件存储
// 同一用户的写入串行化；不同用户落在不同分片时互不阻塞
type EventStore struct {
	shards [shardCount]*eventShard
}

type eventShard struct {
	mu    sync.RWMutex
	users map[string]map[models.Date][]models.ActivityEvent
}

// NewEventStore 创建事件存储
func NewEventStore() *EventStore {
	s := &EventStore{}
	for i := range s.shards {
		s.shards[i] = &eventShard{
			users: make(map[string]map[models.Date][]models.ActivityEvent),
		}
	}
	return s
}

func (s *EventStore) shardFor(userID string) *eventShard {
	h := murmur3.New32()
	_, _ = h.Write([]byte(userID))
	return s.shards[h.Sum32()%shardCount]
}

// AddEvent 按事件自身时区的日历日归档（只追加）
func (s *EventStore) AddEvent(userID string, event models.ActivityEvent) {
	day := models.DateOf(event.Timestamp)
	shard := s.shardFor(userID)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	buckets, ok := shard.users[userID]
	if !ok {
		buckets = make(map[models.Date][]models.ActivityEvent)
		shard.users[userID] = buckets
	}
	buckets[day] = append(buckets[day], event)
}

// EventsForDay 返回某一天的事件副本
func (s *EventStore) EventsForDay(userID string, day models.Date) []models.ActivityEvent {
	return s.EventsForRange(userID, day, day)
}

// EventsForRange 返回 [start, end] 闭区间内的事件副本
// 先按日期升序，日内按写入顺序；无数据的日期贡献空序列
func (s *EventStore) EventsForRange(userID string, start, end models.Date) []models.ActivityEvent {
	shard := s.shardFor(userID)

	shard.mu.RLock()
	defer shard.mu.RUnlock()

	buckets := shard.users[userID]
	events := make([]models.ActivityEvent, 0)
	if buckets == nil {
		return events
	}
	for day := start; !end.Before(day); day = day.AddDays(1) {
		events = append(events, buckets[day]...)
	}
	return events
}

// Users 返回已有数据的用户（排序后）
func (s *EventStore) Users() []string {
	var users []string
	for _, shard := range s.shards {
		shard.mu.RLock()
		for userID := range shard.users {
			users = append(users, userID)
		}
		shard.mu.RUnlock()
	}
	sort.Strings(users)
	return users
}
