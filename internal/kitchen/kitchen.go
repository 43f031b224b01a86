package kitchen

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"mckitchen/internal/logger"
	"mckitchen/internal/models"
)

const (
	DefaultCookDuration = 10 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// Config holds the kitchen's timing constants. Both are fixed at
// construction.
type Config struct {
	CookDuration time.Duration
	PollInterval time.Duration
}

// Kitchen owns the order queue and the bot pool and is the only mutator of
// either. Every command and every completion callback runs under one mutex,
// so matching always sees a consistent view of both.
type Kitchen struct {
	mu sync.Mutex

	cfg Config
	log *logger.Logger

	queue *OrderQueue
	bots  []*models.Bot

	nextOrderID int
	nextBotID   int

	// generation increments on every assignment. A completion timer
	// carries the generation it was scheduled under and is honored only
	// while its bot's generation still matches; timers are also stopped
	// eagerly on cancellation and bot removal.
	generation int64
	botGen     map[int]int64
	timers     map[int64]*time.Timer

	now func() time.Time
}

func New(cfg Config, log *logger.Logger) *Kitchen {
	if cfg.CookDuration <= 0 {
		cfg.CookDuration = DefaultCookDuration
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Kitchen{
		cfg:    cfg,
		log:    log,
		queue:  NewOrderQueue(),
		bots:   []*models.Bot{},
		botGen: make(map[int]int64),
		timers: make(map[int64]*time.Timer),
		now:    time.Now,
	}
}

// PollInterval returns the configured snapshot poll interval.
func (k *Kitchen) PollInterval() time.Duration {
	return k.cfg.PollInterval
}

// SubmitOrder admits a new order into the pending queue and returns its id.
// Ids increase monotonically and are never reused.
func (k *Kitchen) SubmitOrder(priority models.Priority) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.nextOrderID++
	order := &models.Order{
		ID:        k.nextOrderID,
		Priority:  priority,
		State:     models.OrderPending,
		CreatedAt: k.now(),
	}
	k.queue.Insert(order)
	k.logEntry().WithFields(logrus.Fields{
		"order_id": order.ID,
		"priority": order.Priority,
	}).Info("order submitted")

	k.reconcile()
	return order.ID
}

// CancelOrder removes an order from the system. A PROCESSING order's bot is
// freed first and becomes eligible in the same reconciliation pass. Returns
// false if the id is unknown or the order already completed.
func (k *Kitchen) CancelOrder(id int) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	order := k.queue.Find(id)
	if order == nil || order.State == models.OrderComplete {
		return false
	}
	if order.State == models.OrderProcessing {
		k.releaseBot(*order.AssignedBot)
	}
	k.queue.Remove(id)
	k.logEntry().WithField("order_id", id).Info("order cancelled")

	k.reconcile()
	return true
}

// AddBot creates a new idle bot and returns its id. The bot may be matched
// with a pending order immediately.
func (k *Kitchen) AddBot() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.nextBotID++
	bot := &models.Bot{ID: k.nextBotID, State: models.BotIdle}
	k.bots = append(k.bots, bot)
	k.logEntry().WithField("bot_id", bot.ID).Info("bot added")

	k.reconcile()
	return bot.ID
}

// RemoveBot destroys the most-recently-added bot regardless of its state.
// If the bot was processing an order, its timer is stopped and the order
// returns to PENDING at the tail of its priority class. Returns false when
// the pool is empty.
func (k *Kitchen) RemoveBot() bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if len(k.bots) == 0 {
		return false
	}
	bot := k.bots[len(k.bots)-1]
	k.bots = k.bots[:len(k.bots)-1]

	if bot.State == models.BotBusy && bot.CurrentOrder != nil {
		k.stopTimer(bot.ID)
		if order := k.queue.Find(*bot.CurrentOrder); order != nil {
			k.queue.Reinsert(order)
			k.logEntry().WithFields(logrus.Fields{
				"order_id": order.ID,
				"bot_id":   bot.ID,
			}).Info("order returned to queue")
		}
	}
	delete(k.botGen, bot.ID)
	k.logEntry().WithField("bot_id", bot.ID).Info("bot removed")

	k.reconcile()
	return true
}

// reconcile pairs idle bots with pending orders until no pair remains.
// Caller must hold the mutex.
func (k *Kitchen) reconcile() {
	for {
		bot := k.idleBot()
		order := k.queue.HeadPending()
		if bot == nil || order == nil {
			return
		}
		k.assign(bot, order)
	}
}

// assign starts a timed completion for the (bot, order) pair. Caller must
// hold the mutex; bot must be IDLE and order PENDING.
func (k *Kitchen) assign(bot *models.Bot, order *models.Order) {
	botID := bot.ID
	orderID := order.ID

	bot.State = models.BotBusy
	bot.CurrentOrder = &orderID
	order.State = models.OrderProcessing
	order.AssignedBot = &botID
	startedAt := k.now()
	order.StartedAt = &startedAt

	k.generation++
	gen := k.generation
	k.botGen[botID] = gen
	k.timers[gen] = time.AfterFunc(k.cfg.CookDuration, func() {
		k.finishOrder(botID, orderID, gen)
	})

	k.logEntry().WithFields(logrus.Fields{
		"order_id": orderID,
		"bot_id":   botID,
		"priority": order.Priority,
	}).Info("order assigned")
}

// finishOrder is the completion-timer callback. The pairing may have been
// invalidated while the timer was in flight; a stale firing is dropped
// without touching any state.
func (k *Kitchen) finishOrder(botID, orderID int, gen int64) {
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.timers, gen)

	bot := k.findBot(botID)
	if bot == nil || bot.State != models.BotBusy || bot.CurrentOrder == nil ||
		*bot.CurrentOrder != orderID || k.botGen[botID] != gen {
		k.logEntry().WithFields(logrus.Fields{
			"order_id": orderID,
			"bot_id":   botID,
		}).Debug("stale completion discarded")
		return
	}
	order := k.queue.Find(orderID)
	if order == nil || order.State != models.OrderProcessing {
		return
	}

	order.State = models.OrderComplete
	order.AssignedBot = nil
	order.StartedAt = nil
	bot.State = models.BotIdle
	bot.CurrentOrder = nil
	delete(k.botGen, botID)

	k.logEntry().WithFields(logrus.Fields{
		"order_id": orderID,
		"bot_id":   botID,
	}).Info("order complete")

	k.reconcile()
}

// releaseBot frees a busy bot without removing it, invalidating its timer.
// Caller must hold the mutex.
func (k *Kitchen) releaseBot(botID int) {
	bot := k.findBot(botID)
	if bot == nil {
		return
	}
	k.stopTimer(botID)
	delete(k.botGen, botID)
	bot.State = models.BotIdle
	bot.CurrentOrder = nil
}

// stopTimer stops the timer scheduled under the bot's current generation,
// if any. Caller must hold the mutex.
func (k *Kitchen) stopTimer(botID int) {
	gen, ok := k.botGen[botID]
	if !ok {
		return
	}
	if t, ok := k.timers[gen]; ok {
		t.Stop()
		delete(k.timers, gen)
	}
}

func (k *Kitchen) idleBot() *models.Bot {
	// bots is ordered by increasing id, so the first idle entry is the
	// lowest-id idle bot.
	for _, bot := range k.bots {
		if bot.State == models.BotIdle {
			return bot
		}
	}
	return nil
}

func (k *Kitchen) findBot(id int) *models.Bot {
	for _, bot := range k.bots {
		if bot.ID == id {
			return bot
		}
	}
	return nil
}

// PendingOrders returns the pending orders in queue order.
func (k *Kitchen) PendingOrders() []models.Order {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.queue.Pending()
}

// ProcessingOrders returns the in-flight orders in queue order.
func (k *Kitchen) ProcessingOrders() []models.Order {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.queue.Processing()
}

// CompleteOrders returns the completed orders in queue order.
func (k *Kitchen) CompleteOrders() []models.Order {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.queue.Complete()
}

// Bots returns the bot pool in creation order.
func (k *Kitchen) Bots() []models.Bot {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]models.Bot, 0, len(k.bots))
	for _, bot := range k.bots {
		out = append(out, *bot)
	}
	return out
}

// Progress returns the elapsed percentage of the cook duration for a
// PROCESSING order, 100 for a COMPLETE one and 0 otherwise. It is a derived
// read-side value; completion is governed solely by the timer.
func (k *Kitchen) Progress(orderID int) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	order := k.queue.Find(orderID)
	if order == nil {
		return 0
	}
	return k.progressLocked(order)
}

func (k *Kitchen) progressLocked(order *models.Order) int {
	switch order.State {
	case models.OrderComplete:
		return 100
	case models.OrderProcessing:
		if order.StartedAt == nil {
			return 0
		}
		pct := int(k.now().Sub(*order.StartedAt) * 100 / k.cfg.CookDuration)
		if pct > 100 {
			pct = 100
		}
		if pct < 0 {
			pct = 0
		}
		return pct
	default:
		return 0
	}
}

// ProcessingOrder is a processing snapshot entry with its derived progress.
type ProcessingOrder struct {
	models.Order
	Progress int `json:"progress"`
}

// Snapshot is a consistent view of the whole kitchen, taken under the lock.
type Snapshot struct {
	Pending    []models.Order    `json:"pending"`
	Processing []ProcessingOrder `json:"processing"`
	Complete   []models.Order    `json:"complete"`
	Bots       []models.Bot      `json:"bots"`
}

// State returns a consistent snapshot of all queues and the bot pool.
func (k *Kitchen) State() Snapshot {
	k.mu.Lock()
	defer k.mu.Unlock()

	processing := []ProcessingOrder{}
	for _, order := range k.queue.Processing() {
		o := order
		processing = append(processing, ProcessingOrder{
			Order:    o,
			Progress: k.progressLocked(&o),
		})
	}
	bots := make([]models.Bot, 0, len(k.bots))
	for _, bot := range k.bots {
		bots = append(bots, *bot)
	}
	return Snapshot{
		Pending:    k.queue.Pending(),
		Processing: processing,
		Complete:   k.queue.Complete(),
		Bots:       bots,
	}
}

// Close stops all outstanding completion timers. Orders already in flight
// stay PROCESSING; the kitchen is not meant to be used afterwards.
func (k *Kitchen) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for gen, t := range k.timers {
		t.Stop()
		delete(k.timers, gen)
	}
}

func (k *Kitchen) logEntry() *logrus.Entry {
	return k.log.WithComponent("kitchen")
}
