package inventory

const (
	TopicOrderPlaced    = "inventory.order.placed"
	TopicReorderFlagged = "inventory.reorder.flagged"
)

// Partition key = item_id, so all events touching one item keep their order.
func PartitionKey(itemID string) []byte { return []byte(itemID) }
