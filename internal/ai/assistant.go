// Package ai is the storefront assistant: remote proxy with a canned-response
// fallback so the feature works without any upstream configured.
package ai

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/model"
	"github.com/salesmatrix/sales-matrix/internal/remote"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Assistant answers questions, preferring the remote proxy and falling back
// to local keyword rules on any failure (network, non-2xx, missing key).
type Assistant struct {
	store  kvstore.Store
	mirror remote.Mirror
	log    *zap.Logger
	now    func() time.Time
}

// New constructs an Assistant.
func New(store kvstore.Store, mirror remote.Mirror, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{store: store, mirror: mirror, log: log, now: time.Now}
}

// Ask records the question, produces a reply and records it too. Blank input
// returns a prompt to type a question without touching history.
func (a *Assistant) Ask(ctx context.Context, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return "Please type a question."
	}
	a.append(RoleUser, message)
	reply, err := a.mirror.QueryAI(ctx, message)
	if err != nil || reply == "" {
		if err != nil {
			a.log.Debug("remote ai unavailable, using local responder", zap.Error(err))
		}
		reply = Fallback(message)
	}
	a.append(RoleAssistant, reply)
	return reply
}

// History returns the persisted conversation in order.
func (a *Assistant) History() []model.AIMessage {
	var history []model.AIMessage
	a.store.Get(kvstore.KeyAIHistory, &history)
	return history
}

// ClearHistory wipes the persisted conversation.
func (a *Assistant) ClearHistory() error {
	return a.store.Delete(kvstore.KeyAIHistory)
}

func (a *Assistant) append(role, text string) {
	history := a.History()
	history = append(history, model.AIMessage{Role: role, Text: text, Time: a.now().UnixMilli()})
	if err := a.store.Set(kvstore.KeyAIHistory, history); err != nil {
		a.log.Warn("persist ai history", zap.Error(err))
	}
}

type rule struct {
	match *regexp.Regexp
	reply string
}

var rules = []rule{
	{regexp.MustCompile(`\b(hello|hi|hey)\b`),
		"Hello! I'm the Sales Matrix assistant. Ask me about products, orders or support."},
	{regexp.MustCompile(`\b(order|status|tracking)\b`),
		"To check order status go to Orders. If you share an order number I can give basic guidance."},
	{regexp.MustCompile(`\b(cart|checkout|buy|add to cart)\b`),
		"You can add items to your cart from the product list. Open the Cart button in the header to view or checkout."},
	{regexp.MustCompile(`\b(price|cost|how much)\b`),
		"Product prices are shown on each product card. Use the search to find items and compare."},
	{regexp.MustCompile(`\b(return|refund)\b`),
		"For returns/refunds, please visit the Orders page and open the order details, or contact support@salesmatrix.com."},
	{regexp.MustCompile(`\b(help|support|contact)\b`),
		"You can contact support at support@salesmatrix.com or call 1-800-NEON. What do you need help with specifically?"},
}

// Fallback answers from keyword rules; the first matching rule wins.
func Fallback(message string) string {
	m := strings.ToLower(message)
	for _, r := range rules {
		if r.match.MatchString(m) {
			return r.reply
		}
	}
	return "Sorry, I don't have that info locally. Try asking about products, orders, account or contact support."
}
