package correlation

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/gateway"
)

// Kind представляет тип вызова шлюза, ожидающего webhook ответа
type Kind string

const (
	// KindCreate - ожидается ответ на create checkout
	KindCreate Kind = "create"
	// KindConfirm - ожидается ответ на confirm checkout
	KindConfirm Kind = "confirm"
)

// entry - одна pending-запись: вызов шлюза, ожидающий webhook
// Инвариант: запись удаляется ровно один раз - либо при resolve, либо при истечении
// дедлайна, но никогда дважды. Канал буферизован на 1 и получает ровно одно значение.
type entry struct {
	kind  Kind
	ch    chan gateway.Outcome
	timer *time.Timer
}

// Registry отслеживает in-flight вызовы шлюза, ожидающие асинхронного webhook ответа
// Единственный общий мутабельный ресурс между request-путём и webhook-путём:
// все мутации (insert/resolve/expire) защищены мьютексом и атомарны друг относительно друга
type Registry struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry
	// order хранит id в порядке регистрации - нужен для fallback-поиска
	// "первой" pending записи нужного kind
	order []string
}

// NewRegistry создаёт новый реестр корреляций
// Реестр конструируется явно при старте процесса и дренируется при shutdown,
// а не живёт глобальным состоянием
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

// Register вставляет pending-запись под указанным correlation id и взводит таймер дедлайна
// Id чеканится оркестратором на каждую попытку вызова и возвращается шлюзом -
// реестр принимает его, а не выделяет сам. Повторный live id - ошибка вызывающего.
// Возвращённый канал завершится ровно один раз: реальным webhook результатом
// или синтетическим retry-результатом по истечении timeout.
func (r *Registry) Register(kind Kind, id string, timeout time.Duration) (<-chan gateway.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return nil, fmt.Errorf("correlation id already pending: %s", id)
	}

	e := &entry{
		kind: kind,
		ch:   make(chan gateway.Outcome, 1),
	}
	e.timer = time.AfterFunc(timeout, func() {
		r.expire(id)
	})

	r.entries[id] = e
	r.order = append(r.order, id)

	r.logger.Info("correlation registered",
		zap.String("correlation_id", id),
		zap.String("kind", string(kind)),
		zap.Duration("timeout", timeout),
	)
	return e.ch, nil
}

// Resolve завершает pending-запись результатом webhook
// Если запись существует: останавливает таймер, завершает канал, удаляет запись,
// возвращает true. Неизвестный id - no-op с false: вызывающий логирует, это не ошибка.
func (r *Registry) Resolve(id string, outcome gateway.Outcome) bool {
	r.mu.Lock()
	e, exists := r.entries[id]
	if exists {
		r.removeLocked(id, e)
	}
	r.mu.Unlock()

	if !exists {
		return false
	}

	e.ch <- outcome
	return true
}

// ResolveFirst завершает первую (самую старую) pending-запись указанного kind
// Fallback для webhook'ов подтверждения, у которых шлюз чеканит новый id:
// точного совпадения по id для них не бывает. Возвращает id завершённой записи.
func (r *Registry) ResolveFirst(kind Kind, outcome gateway.Outcome) (string, bool) {
	r.mu.Lock()
	var matchID string
	var match *entry
	for _, id := range r.order {
		e, exists := r.entries[id]
		if exists && e.kind == kind {
			matchID, match = id, e
			break
		}
	}
	if match != nil {
		r.removeLocked(matchID, match)
	}
	r.mu.Unlock()

	if match == nil {
		return "", false
	}

	match.ch <- outcome
	return matchID, true
}

// Pending возвращает количество pending-записей (для readiness и тестов)
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Drain завершает все pending-записи указанным результатом
// Вызывается при graceful shutdown, чтобы ни один подвешенный запрос не остался без ответа
func (r *Registry) Drain(outcome gateway.Outcome) int {
	r.mu.Lock()
	drained := make([]*entry, 0, len(r.entries))
	for id, e := range r.entries {
		r.removeLocked(id, e)
		drained = append(drained, e)
	}
	r.mu.Unlock()

	for _, e := range drained {
		e.ch <- outcome
	}

	if len(drained) > 0 {
		r.logger.Info("correlation registry drained", zap.Int("count", len(drained)))
	}
	return len(drained)
}

// expire срабатывает по таймеру дедлайна: завершает запись синтетическим retry-результатом
// Если запись уже разрешена (гонка с Resolve), это no-op - запись удаляется ровно один раз
func (r *Registry) expire(id string) {
	r.mu.Lock()
	e, exists := r.entries[id]
	if exists {
		r.removeLocked(id, e)
	}
	r.mu.Unlock()

	if !exists {
		return
	}

	r.logger.Warn("correlation expired without webhook",
		zap.String("correlation_id", id),
		zap.String("kind", string(e.kind)),
	)
	e.ch <- gateway.TransientOutcome("webhook wait deadline exceeded")
}

// removeLocked удаляет запись и останавливает её таймер (вызывается с захваченным mu)
// Остановка таймера - часть пути resolve, а не забота вызывающего:
// разрешённая запись никогда не выстрелит своим таймаутом позже
func (r *Registry) removeLocked(id string, e *entry) {
	e.timer.Stop()
	delete(r.entries, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
