package services

import "tradejournal/internal/websocket"

const (
	EventPlanCreated        = "trading_plan.created"
	EventPlanUpdated        = "trading_plan.updated"
	EventPlanDeleted        = "trading_plan.deleted"
	EventStrategyCreated    = "strategy.created"
	EventStrategyUpdated    = "strategy.updated"
	EventStrategyDeleted    = "strategy.deleted"
	EventTradeCreated       = "trade.created"
	EventTradeUpdated       = "trade.updated"
	EventTradeDeleted       = "trade.deleted"
	EventJournalCreated     = "journal.created"
	EventJournalUpdated     = "journal.updated"
	EventJournalDeleted     = "journal.deleted"
	EventPerformanceCreated = "performance.created"
	EventPerformanceUpdated = "performance.updated"
	EventPerformanceDeleted = "performance.deleted"
)

// publish runs after commit; a nil publisher disables notifications.
func publish(events EventPublisher, userID, eventType, entityID string, payload map[string]any) {
	if events == nil || userID == "" {
		return
	}
	event := websocket.Event{Type: eventType, EntityID: entityID}
	if payload != nil {
		event.Payload = payload
	}
	events.Publish(userID, event)
}
